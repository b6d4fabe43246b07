package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/authz"
	"vena/internal/models"
	"vena/internal/repositories"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required"`
	RoleID   int    `json:"role_id" binding:"required"`
}

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	// EnsureAdmin creates the owner account on first start.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	store repositories.Store
	auth  AuthService
	now   func() time.Time
}

func NewUserService(store repositories.Store, auth AuthService) UserService {
	return &userService{store: store, auth: auth, now: time.Now}
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Message: "invalid email"}
	}
	if len(strings.TrimSpace(req.Password)) < 8 {
		return nil, &models.ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if !authz.IsKnown(req.RoleID) {
		return nil, &models.ValidationError{Field: "role_id", Message: "unknown role"}
	}

	repo := s.store.Repos().Users
	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		RoleID:       req.RoleID,
		CreatedAt:    s.now().UTC(),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[user][create] id=%s role=%d", user.ID, user.RoleID)
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.Repos().Users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.Repos().Users.List(ctx)
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	existing, err := s.store.Repos().Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = s.Create(ctx, CreateUserRequest{
		Email:    email,
		FullName: "Owner",
		Password: password,
		RoleID:   authz.RoleOwner,
	})
	return err
}
