package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/locks"
	"vena/internal/models"
	"vena/internal/pricing"
	"vena/internal/repositories"
	"vena/internal/utils"
)

const defaultConversionLockTTL = 30 * time.Second

// ConversionService turns a lead (or an anonymous public booking) plus a booking
// form into a client, a project, an optional deposit transaction and a converted lead.
type ConversionService struct {
	Store           repositories.Store
	Pricing         *pricing.Calculator
	Locker          locks.Locker
	Notifier        Notifier
	DepositCategory string
	LockTTL         time.Duration
	Now             func() time.Time
}

func NewConversionService(store repositories.Store, calc *pricing.Calculator, locker locks.Locker, notifier Notifier, depositCategory string) *ConversionService {
	return &ConversionService{
		Store:           store,
		Pricing:         calc,
		Locker:          locker,
		Notifier:        notifier,
		DepositCategory: depositCategory,
		LockTTL:         defaultConversionLockTTL,
		Now:             time.Now,
	}
}

type ConversionResult struct {
	Client       *models.Client       `json:"client"`
	Project      *models.Project      `json:"project"`
	Transaction  *models.Transaction  `json:"transaction,omitempty"`
	Lead         *models.Lead         `json:"lead"`
	PromoCode    *models.PromoCode    `json:"promo_code,omitempty"`
	Card         *models.Card         `json:"card,omitempty"`
	Pricing      pricing.Breakdown    `json:"pricing"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// conversionPlan holds every record of a conversion before anything is written.
type conversionPlan struct {
	client      models.Client
	project     models.Project
	transaction *models.Transaction
	promoID     string
	cardID      string
	lead        models.Lead
	leadStatus  models.LeadStatus // status the lead must still have at commit; empty for a new lead
	pricing     pricing.Breakdown
	packageName string
	public      bool
}

// ConvertLead converts an existing, non-terminal lead.
func (s *ConversionService) ConvertLead(ctx context.Context, form models.ConvertLeadForm) (*ConversionResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	release, err := s.Locker.Acquire(ctx, "lead:"+form.LeadID+":convert", s.lockTTL())
	if err != nil {
		if errors.Is(err, locks.ErrLocked) {
			return nil, ErrConversionInProgress
		}
		return nil, err
	}
	defer release()

	lead, err := s.Store.Repos().Leads.GetByID(ctx, form.LeadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if !canTransition(lead.Status, models.LeadConverted, LeadTransitions) {
		return nil, ErrLeadTerminal
	}

	plan, err := s.plan(ctx, &form.Booking, false)
	if err != nil {
		return nil, err
	}
	plan.leadStatus = lead.Status
	plan.lead = *lead
	plan.lead.Status = models.LeadConverted
	plan.lead.Notes = appendNote(lead.Notes, "Converted to client "+plan.client.ID)

	res, err := s.commit(ctx, plan)
	if err != nil {
		return nil, err
	}
	log.Printf("[convert][lead] lead_id=%s client_id=%s project_id=%s total=%.0f deposit=%.0f promo=%s",
		lead.ID, res.Client.ID, res.Project.ID, res.Project.TotalCost, res.Project.AmountPaid, plan.pricing.Promo)

	res.Notification = emit(ctx, s.Notifier, models.Notification{
		Title:   "Lead converted",
		Message: fmt.Sprintf("%s is now a client: %s, %s.", res.Client.Name, plan.packageName, pricing.FormatRupiah(res.Project.TotalCost)),
		Icon:    models.IconLead,
		Link:    &models.NotificationLink{View: "projects", Action: res.Project.ID},
	})
	return res, nil
}

// SubmitPublicBooking handles an anonymous booking. A lead is created already
// converted so the inquiry shows up in lead history.
func (s *ConversionService) SubmitPublicBooking(ctx context.Context, form models.BookingForm) (*ConversionResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	plan, err := s.plan(ctx, &form, true)
	if err != nil {
		return nil, err
	}
	plan.lead = models.Lead{
		ID:             uuid.NewString(),
		Name:           plan.client.Name,
		ContactChannel: models.ChannelWebsite,
		Location:       form.Location,
		Status:         models.LeadConverted,
		Date:           plan.client.Since,
		Notes:          "Converted to client " + plan.client.ID,
		WhatsApp:       form.WhatsApp,
	}

	res, err := s.commit(ctx, plan)
	if err != nil {
		return nil, err
	}
	log.Printf("[convert][public] client_id=%s project_id=%s total=%.0f deposit=%.0f promo=%s",
		res.Client.ID, res.Project.ID, res.Project.TotalCost, res.Project.AmountPaid, plan.pricing.Promo)

	res.Notification = emit(ctx, s.Notifier, models.Notification{
		Title:   "New booking",
		Message: fmt.Sprintf("%s booked %s (%s) and is waiting for confirmation.", res.Client.Name, plan.packageName, pricing.FormatRupiah(res.Project.TotalCost)),
		Icon:    models.IconBooking,
		Link:    &models.NotificationLink{View: "bookings", Action: res.Project.ID},
	})
	return res, nil
}

// plan resolves and validates everything and builds the records. It writes nothing.
func (s *ConversionService) plan(ctx context.Context, form *models.BookingForm, public bool) (*conversionPlan, error) {
	repos := s.Store.Repos()

	sel, err := resolveSelection(ctx, repos, form.PackageID, form.AddOnIDs, form.PromoCode)
	if err != nil {
		return nil, err
	}
	breakdown := s.Pricing.Compute(pricing.Request{
		Package:   sel.Package,
		AddOns:    sel.AddOns,
		PromoCode: form.PromoCode,
		Promo:     sel.Promo,
		Deposit:   form.DepositAmount,
	})
	if form.DepositAmount > breakdown.Total {
		return nil, &models.ValidationError{Field: "deposit_amount", Message: "payment exceeds remaining balance"}
	}

	if form.DepositAmount > 0 {
		card, err := repos.Cards.GetByID(ctx, form.DestinationCardID)
		if err != nil {
			return nil, err
		}
		if card == nil {
			return nil, ErrCardNotFound
		}
	}

	token, err := utils.NewPortalToken()
	if err != nil {
		return nil, fmt.Errorf("generate portal token: %w", err)
	}
	now := s.Now().UTC()

	client := models.Client{
		ID:             uuid.NewString(),
		Name:           form.ClientName,
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		WhatsApp:       strings.TrimSpace(form.WhatsApp),
		Instagram:      strings.TrimSpace(form.Instagram),
		ClientType:     form.ClientType,
		Status:         models.ClientActive,
		Since:          now,
		LastContact:    now,
		PortalAccessID: token,
	}

	projectName := strings.TrimSpace(form.ProjectName)
	if projectName == "" {
		projectName = sel.Package.Name + " - " + client.Name
	}
	eventDate := form.EventDate
	if eventDate.IsZero() {
		eventDate = now
	}
	project := models.Project{
		ID:               uuid.NewString(),
		ProjectName:      projectName,
		ClientName:       client.Name,
		ClientID:         client.ID,
		ProjectType:      form.ProjectType,
		PackageName:      sel.Package.Name,
		PackageID:        sel.Package.ID,
		AddOns:           sel.AddOns,
		Date:             eventDate,
		Location:         form.Location,
		Progress:         0,
		TotalCost:        breakdown.Total,
		AmountPaid:       form.DepositAmount,
		DepositProof:     form.DepositProof,
		PaymentReference: strings.TrimSpace(form.PaymentReference),
		Team:             []models.TeamAssignment{},
		Notes:            form.Notes,
		CreatedAt:        now,
	}
	project.RefreshPaymentStatus()
	if public {
		project.BookingStatus = models.BookingNew
	}

	plan := &conversionPlan{
		client:      client,
		project:     project,
		pricing:     breakdown,
		packageName: sel.Package.Name,
		public:      public,
	}
	if breakdown.PromoApplied() {
		plan.promoID = breakdown.PromoCodeID
		plan.project.PromoCodeID = breakdown.PromoCodeID
		plan.project.DiscountAmount = breakdown.DiscountAmount
	}
	if form.DepositAmount > 0 {
		plan.cardID = form.DestinationCardID
		plan.transaction = &models.Transaction{
			ID:          uuid.NewString(),
			Date:        now,
			Description: "DP " + project.ProjectName,
			Amount:      form.DepositAmount,
			Type:        models.TransactionIncome,
			ProjectID:   project.ID,
			Category:    s.DepositCategory,
			Method:      "Transfer",
			CardID:      form.DestinationCardID,
		}
	}
	return plan, nil
}

// commit writes the plan as one unit of work, in the order client, project,
// transaction and card, promo, lead.
func (s *ConversionService) commit(ctx context.Context, plan *conversionPlan) (*ConversionResult, error) {
	res := &ConversionResult{Pricing: plan.pricing}

	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		if err := r.Clients.Create(ctx, &plan.client); err != nil {
			return err
		}
		if err := r.Projects.Create(ctx, &plan.project); err != nil {
			return err
		}

		if plan.transaction != nil {
			if err := r.Transactions.Create(ctx, plan.transaction); err != nil {
				return err
			}
			if err := r.Cards.AdjustBalance(ctx, plan.cardID, plan.transaction.Amount); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrCardNotFound
				}
				return err
			}
			card, err := r.Cards.GetByID(ctx, plan.cardID)
			if err != nil {
				return err
			}
			res.Card = card
		}

		if plan.promoID != "" {
			if err := r.PromoCodes.IncrementUsage(ctx, plan.promoID); err != nil {
				if errors.Is(err, repositories.ErrConflict) || errors.Is(err, repositories.ErrNotFound) {
					return ErrPromoExhausted
				}
				return err
			}
			promo, err := r.PromoCodes.GetByID(ctx, plan.promoID)
			if err != nil {
				return err
			}
			res.PromoCode = promo
		}

		if plan.leadStatus == "" {
			return r.Leads.Create(ctx, &plan.lead)
		}
		if err := r.Leads.Update(ctx, &plan.lead, plan.leadStatus); err != nil {
			switch {
			case errors.Is(err, repositories.ErrConflict):
				return ErrLeadChanged
			case errors.Is(err, repositories.ErrNotFound):
				return ErrLeadNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Client = &plan.client
	res.Project = &plan.project
	res.Transaction = plan.transaction
	res.Lead = &plan.lead
	return res, nil
}

func (s *ConversionService) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return defaultConversionLockTTL
	}
	return s.LockTTL
}

func appendNote(notes, line string) string {
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}
