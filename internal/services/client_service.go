package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/models"
	"vena/internal/repositories"
	"vena/internal/utils"
)

type ClientService struct {
	Store repositories.Store
	Now   func() time.Time
}

func NewClientService(store repositories.Store) *ClientService {
	return &ClientService{Store: store, Now: time.Now}
}

// PortalView is the read-only page a client opens with their access token.
type PortalView struct {
	Client   *models.Client    `json:"client"`
	Projects []*models.Project `json:"projects"`
}

func validateClient(c *models.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return &models.ValidationError{Field: "name", Message: "client name is required"}
	}
	if c.ClientType == "" {
		c.ClientType = models.ClientDirect
	}
	if c.ClientType != models.ClientDirect && c.ClientType != models.ClientVendor {
		return &models.ValidationError{Field: "client_type", Message: "unknown client type"}
	}
	if c.Status == "" {
		c.Status = models.ClientActive
	}
	switch c.Status {
	case models.ClientLead, models.ClientActive, models.ClientInactive, models.ClientLost:
	default:
		return &models.ValidationError{Field: "status", Message: "unknown client status"}
	}
	return nil
}

// Create registers a client directly, outside of a lead conversion.
func (s *ClientService) Create(ctx context.Context, c *models.Client) error {
	if err := validateClient(c); err != nil {
		return err
	}
	token, err := utils.NewPortalToken()
	if err != nil {
		return fmt.Errorf("generate portal token: %w", err)
	}
	now := s.Now().UTC()
	c.ID = uuid.NewString()
	c.PortalAccessID = token
	c.Since = now
	c.LastContact = now
	return s.Store.Repos().Clients.Create(ctx, c)
}

// Update edits contact details. The portal token and join date are kept as stored.
func (s *ClientService) Update(ctx context.Context, c *models.Client) (*models.Client, error) {
	if err := validateClient(c); err != nil {
		return nil, err
	}
	repos := s.Store.Repos()
	existing, err := repos.Clients.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrClientNotFound
	}
	c.PortalAccessID = existing.PortalAccessID
	c.Since = existing.Since
	if c.LastContact.IsZero() {
		c.LastContact = existing.LastContact
	}
	if err := repos.Clients.Update(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ClientService) TouchLastContact(ctx context.Context, id string) (*models.Client, error) {
	repos := s.Store.Repos()
	c, err := repos.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	c.LastContact = s.Now().UTC()
	if err := repos.Clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.Store.Repos().Clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.Store.Repos().Clients.List(ctx)
}

// Delete removes a client together with its projects and their transactions.
// Card balances are not reverted.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		c, err := r.Clients.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrClientNotFound
		}
		projects, err := r.Projects.ListByClient(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range projects {
			if err := r.Transactions.DeleteByProject(ctx, p.ID); err != nil {
				return err
			}
		}
		if err := r.Projects.DeleteByClient(ctx, id); err != nil {
			return err
		}
		return r.Clients.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("[client][delete] client_id=%s", id)
	return nil
}

func (s *ClientService) Portal(ctx context.Context, token string) (*PortalView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrClientNotFound
	}
	repos := s.Store.Repos()
	c, err := repos.Clients.GetByPortalToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	projects, err := repos.Projects.ListByClient(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &PortalView{Client: c, Projects: projects}, nil
}

// Detail returns a client with all of its projects.
func (s *ClientService) Detail(ctx context.Context, id string) (*PortalView, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	projects, err := s.Store.Repos().Projects.ListByClient(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &PortalView{Client: c, Projects: projects}, nil
}
