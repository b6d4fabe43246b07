package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/models"
	"vena/internal/repositories"
)

type LeadService struct {
	Store    repositories.Store
	Notifier Notifier
	Now      func() time.Time
}

func NewLeadService(store repositories.Store, notifier Notifier) *LeadService {
	return &LeadService{Store: store, Notifier: notifier, Now: time.Now}
}

func (s *LeadService) Create(ctx context.Context, form *models.AddLeadForm) (*models.Lead, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	lead := &models.Lead{
		ID:             uuid.NewString(),
		Name:           form.Name,
		ContactChannel: form.ContactChannel,
		Location:       strings.TrimSpace(form.Location),
		Status:         models.LeadDiscussion,
		Date:           s.Now().UTC(),
		Notes:          form.Notes,
		WhatsApp:       strings.TrimSpace(form.WhatsApp),
	}
	if err := s.Store.Repos().Leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// CapturePublic records an inquiry left through the public contact form.
func (s *LeadService) CapturePublic(ctx context.Context, form *models.AddLeadForm) (*models.Lead, error) {
	if form.ContactChannel == "" {
		form.ContactChannel = models.ChannelSuggestionForm
	}
	lead, err := s.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	emit(ctx, s.Notifier, models.Notification{
		Title:   "New inquiry",
		Message: fmt.Sprintf("%s left an inquiry via %s.", lead.Name, lead.ContactChannel),
		Icon:    models.IconLead,
		Link:    &models.NotificationLink{View: "leads", Action: lead.ID},
	})
	return lead, nil
}

// Update edits a lead's details. Status moves only through UpdateStatus or conversion,
// and converted or rejected leads are read-only.
func (s *LeadService) Update(ctx context.Context, form *models.EditLeadForm) (*models.Lead, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	repos := s.Store.Repos()
	lead, err := repos.Leads.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.Status.IsTerminal() {
		return nil, ErrLeadTerminal
	}

	lead.Name = form.Name
	if form.ContactChannel != "" {
		lead.ContactChannel = form.ContactChannel
	}
	lead.Location = strings.TrimSpace(form.Location)
	lead.Notes = form.Notes
	lead.WhatsApp = strings.TrimSpace(form.WhatsApp)

	if err := repos.Leads.Update(ctx, lead, lead.Status); err != nil {
		return nil, mapLeadWriteErr(err)
	}
	return lead, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*models.Lead, error) {
	lead, err := s.Store.Repos().Leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context) ([]*models.Lead, error) {
	return s.Store.Repos().Leads.List(ctx)
}

// UpdateStatus applies a plain status move. Moving to FollowUp re-stamps the contact date.
func (s *LeadService) UpdateStatus(ctx context.Context, id string, to models.LeadStatus) (*models.Lead, error) {
	if to == models.LeadConverted {
		return nil, ErrConversionRequired
	}
	repos := s.Store.Repos()
	lead, err := repos.Leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.Status.IsTerminal() {
		return nil, ErrLeadTerminal
	}
	if !canTransition(lead.Status, to, LeadTransitions) {
		return nil, ErrInvalidTransition
	}

	from := lead.Status
	lead.Status = to
	if to == models.LeadFollowUp {
		lead.Date = s.Now().UTC()
	}
	if err := repos.Leads.Update(ctx, lead, from); err != nil {
		return nil, mapLeadWriteErr(err)
	}
	return lead, nil
}

func mapLeadWriteErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrConflict):
		return ErrLeadChanged
	case errors.Is(err, repositories.ErrNotFound):
		return ErrLeadNotFound
	}
	return err
}
