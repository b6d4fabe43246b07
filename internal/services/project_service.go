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
	"vena/internal/pricing"
	"vena/internal/repositories"
)

type ProjectService struct {
	Store           repositories.Store
	Notifier        Notifier
	Email           EmailService // optional
	PortalBaseURL   string
	PaymentCategory string
	Now             func() time.Time
}

func NewProjectService(store repositories.Store, notifier Notifier, email EmailService, portalBaseURL, paymentCategory string) *ProjectService {
	return &ProjectService{
		Store:           store,
		Notifier:        notifier,
		Email:           email,
		PortalBaseURL:   strings.TrimRight(portalBaseURL, "/"),
		PaymentCategory: paymentCategory,
		Now:             time.Now,
	}
}

type PaymentInput struct {
	Amount    float64 `json:"amount" binding:"required"`
	CardID    string  `json:"card_id" binding:"required"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

type PaymentResult struct {
	Project     *models.Project     `json:"project"`
	Transaction *models.Transaction `json:"transaction"`
	Card        *models.Card        `json:"card"`
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.Store.Repos().Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.Store.Repos().Projects.List(ctx)
}

// ListConfirmedBookings is the confirmed bookings history.
func (s *ProjectService) ListConfirmedBookings(ctx context.Context) ([]*models.Project, error) {
	all, err := s.Store.Repos().Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*models.Project, 0)
	for _, p := range all {
		if p.BookingStatus == models.BookingConfirmed {
			res = append(res, p)
		}
	}
	return res, nil
}

// UpdateBookingStatus moves a public booking from New to Confirmed or Rejected.
func (s *ProjectService) UpdateBookingStatus(ctx context.Context, id string, to models.BookingStatus) (*models.Project, error) {
	var updated *models.Project
	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		p, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProjectNotFound
		}
		if p.BookingStatus == "" {
			return ErrNotABooking
		}
		if !canTransition(p.BookingStatus, to, BookingTransitions) {
			return ErrInvalidTransition
		}
		p.BookingStatus = to
		if err := r.Projects.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[project][booking] project_id=%s status=%s", updated.ID, to)

	if to == models.BookingConfirmed {
		emit(ctx, s.Notifier, models.Notification{
			Title:   "Booking confirmed",
			Message: fmt.Sprintf("Booking %s for %s is confirmed.", updated.ProjectName, updated.ClientName),
			Icon:    models.IconBooking,
			Link:    &models.NotificationLink{View: "projects", Action: updated.ID},
		})
		s.sendConfirmation(ctx, updated)
	}
	return updated, nil
}

func (s *ProjectService) sendConfirmation(ctx context.Context, p *models.Project) {
	if s.Email == nil {
		return
	}
	client, err := s.Store.Repos().Clients.GetByID(ctx, p.ClientID)
	if err != nil || client == nil || client.Email == "" {
		return
	}
	portalURL := s.PortalBaseURL + "/portal/" + client.PortalAccessID
	if err := s.Email.SendBookingConfirmation(client.Email, client.Name, p, portalURL); err != nil {
		log.Printf("[project][booking] confirmation email failed project_id=%s err=%v", p.ID, err)
	}
}

// RecordPayment books an installment: income transaction, card credit and the
// project's paid amount move together.
func (s *ProjectService) RecordPayment(ctx context.Context, projectID string, in PaymentInput) (*PaymentResult, error) {
	if in.Amount <= 0 {
		return nil, &models.ValidationError{Field: "amount", Message: "payment must be positive"}
	}
	if strings.TrimSpace(in.CardID) == "" {
		return nil, &models.ValidationError{Field: "card_id", Message: "select the card that received the payment"}
	}
	method := in.Method
	if method == "" {
		method = "Transfer"
	}

	res := &PaymentResult{}
	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		p, err := r.Projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProjectNotFound
		}
		if in.Amount > p.Remaining() {
			return &models.ValidationError{Field: "amount", Message: "payment exceeds remaining balance"}
		}
		card, err := r.Cards.GetByID(ctx, in.CardID)
		if err != nil {
			return err
		}
		if card == nil {
			return ErrCardNotFound
		}

		now := s.Now().UTC()
		desc := "Payment " + p.ProjectName
		if in.Reference != "" {
			desc += " (" + in.Reference + ")"
		}
		txn := &models.Transaction{
			ID:          uuid.NewString(),
			Date:        now,
			Description: desc,
			Amount:      in.Amount,
			Type:        models.TransactionIncome,
			ProjectID:   p.ID,
			Category:    s.PaymentCategory,
			Method:      method,
			CardID:      card.ID,
		}
		if err := r.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		if err := r.Cards.AdjustBalance(ctx, card.ID, in.Amount); err != nil {
			return err
		}
		p.AmountPaid += in.Amount
		p.RefreshPaymentStatus()
		if err := r.Projects.Update(ctx, p); err != nil {
			return err
		}
		card.Balance += in.Amount

		res.Project, res.Transaction, res.Card = p, txn, card
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[project][payment] project_id=%s amount=%.0f paid=%.0f status=%s",
		res.Project.ID, in.Amount, res.Project.AmountPaid, res.Project.PaymentStatus)

	emit(ctx, s.Notifier, models.Notification{
		Title:   "Payment received",
		Message: fmt.Sprintf("%s paid %s for %s.", res.Project.ClientName, pricing.FormatRupiah(in.Amount), res.Project.ProjectName),
		Icon:    models.IconPayment,
		Link:    &models.NotificationLink{View: "projects", Action: res.Project.ID},
	})
	return res, nil
}

// UpdateProgress sets the work progress (0..100).
func (s *ProjectService) UpdateProgress(ctx context.Context, id string, progress int) (*models.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, &models.ValidationError{Field: "progress", Message: "progress must be between 0 and 100"}
	}
	var updated *models.Project
	var completed bool
	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		p, err := r.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProjectNotFound
		}
		completed = p.Progress < 100 && progress == 100
		p.Progress = progress
		if err := r.Projects.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if completed {
		emit(ctx, s.Notifier, models.Notification{
			Title:   "Project completed",
			Message: fmt.Sprintf("%s is finished.", updated.ProjectName),
			Icon:    models.IconCompleted,
			Link:    &models.NotificationLink{View: "projects", Action: updated.ID},
		})
	}
	return updated, nil
}

// Transactions lists the money movements of a project, newest first.
func (s *ProjectService) Transactions(ctx context.Context, id string) ([]*models.Transaction, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.Store.Repos().Transactions.ListByProject(ctx, id)
}
