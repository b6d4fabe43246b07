package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vena/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, role_id, created_at`

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (` + userColumns + `) VALUES ($1,$2,$3,$4,$5,$6)`
	if _, err := r.db.ExecContext(ctx, q, u.ID, strings.ToLower(u.Email), u.FullName, u.PasswordHash,
		u.RoleID, u.CreatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=LOWER($1)`
	return r.getOne(ctx, q, email)
}

func (r *userRepository) getOne(ctx context.Context, q string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		res = append(res, &u)
	}
	return res, rows.Err()
}
