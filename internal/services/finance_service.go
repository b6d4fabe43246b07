package services

import (
	"context"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/models"
	"vena/internal/repositories"
)

type FinanceService struct {
	Store             repositories.Store
	IncomeCategories  []string
	ExpenseCategories []string
	Now               func() time.Time
}

func NewFinanceService(store repositories.Store, income, expense []string) *FinanceService {
	return &FinanceService{Store: store, IncomeCategories: income, ExpenseCategories: expense, Now: time.Now}
}

type CardInput struct {
	BankName       string  `json:"bank_name" binding:"required"`
	CardHolderName string  `json:"card_holder_name"`
	LastFourDigits string  `json:"last_four_digits"`
	Balance        float64 `json:"balance"`
}

type TransactionInput struct {
	Date        time.Time              `json:"date"`
	Description string                 `json:"description" binding:"required"`
	Amount      float64                `json:"amount" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required"`
	ProjectID   string                 `json:"project_id"`
	Category    string                 `json:"category" binding:"required"`
	Method      string                 `json:"method"`
	CardID      string                 `json:"card_id"`
}

func (s *FinanceService) CreateCard(ctx context.Context, in CardInput) (*models.Card, error) {
	if strings.TrimSpace(in.BankName) == "" {
		return nil, &models.ValidationError{Field: "bank_name", Message: "bank name is required"}
	}
	digits := strings.TrimSpace(in.LastFourDigits)
	if digits != "" && len(digits) != 4 {
		return nil, &models.ValidationError{Field: "last_four_digits", Message: "expected 4 digits"}
	}
	card := &models.Card{
		ID:             uuid.NewString(),
		BankName:       strings.TrimSpace(in.BankName),
		CardHolderName: strings.TrimSpace(in.CardHolderName),
		LastFourDigits: digits,
		Balance:        in.Balance,
	}
	if err := s.Store.Repos().Cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FinanceService) ListCards(ctx context.Context) ([]*models.Card, error) {
	return s.Store.Repos().Cards.List(ctx)
}

func (s *FinanceService) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.Store.Repos().Transactions.List(ctx)
}

func (s *FinanceService) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := s.Store.Repos().Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// CreateTransaction books a manual income or expense and moves the card
// balance with it. Project payments go through ProjectService.RecordPayment.
func (s *FinanceService) CreateTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	if err := s.validateTransaction(in); err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.Now().UTC()
	}
	txn := &models.Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Type:        in.Type,
		ProjectID:   strings.TrimSpace(in.ProjectID),
		Category:    strings.TrimSpace(in.Category),
		Method:      in.Method,
		CardID:      strings.TrimSpace(in.CardID),
	}

	err := s.Store.WithinTx(ctx, func(r repositories.Repos) error {
		if txn.ProjectID != "" {
			p, err := r.Projects.GetByID(ctx, txn.ProjectID)
			if err != nil {
				return err
			}
			if p == nil {
				return ErrProjectNotFound
			}
		}
		if txn.CardID != "" {
			card, err := r.Cards.GetByID(ctx, txn.CardID)
			if err != nil {
				return err
			}
			if card == nil {
				return ErrCardNotFound
			}
		}
		if err := r.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		if txn.CardID == "" {
			return nil
		}
		delta := txn.Amount
		if txn.Type == models.TransactionExpense {
			delta = -delta
		}
		return r.Cards.AdjustBalance(ctx, txn.CardID, delta)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[finance][txn] id=%s type=%s amount=%.0f card=%s", txn.ID, txn.Type, txn.Amount, txn.CardID)
	return txn, nil
}

func (s *FinanceService) validateTransaction(in TransactionInput) error {
	if in.Amount <= 0 {
		return &models.ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &models.ValidationError{Field: "description", Message: "description is required"}
	}
	var vocabulary []string
	switch in.Type {
	case models.TransactionIncome:
		if strings.TrimSpace(in.ProjectID) != "" {
			return &models.ValidationError{Field: "project_id", Message: "record project payments on the project"}
		}
		vocabulary = s.IncomeCategories
	case models.TransactionExpense:
		vocabulary = s.ExpenseCategories
	default:
		return &models.ValidationError{Field: "type", Message: "type must be Income or Expense"}
	}
	if len(vocabulary) > 0 && !slices.Contains(vocabulary, strings.TrimSpace(in.Category)) {
		return &models.ValidationError{Field: "category", Message: "unknown category"}
	}
	return nil
}
