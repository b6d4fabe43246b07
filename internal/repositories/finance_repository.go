package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vena/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context) ([]*models.Transaction, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Transaction, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type CardRepository interface {
	Create(ctx context.Context, c *models.Card) error
	GetByID(ctx context.Context, id string) (*models.Card, error)
	List(ctx context.Context) ([]*models.Card, error)
	// AdjustBalance adds delta (which may be negative) to the card balance.
	AdjustBalance(ctx context.Context, id string, delta float64) error
}

type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, date, description, amount, type, project_id, category, method, card_id`

func (r *transactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	const q = `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	if _, err := r.db.ExecContext(ctx, q, t.ID, t.Date, t.Description, t.Amount, t.Type,
		t.ProjectID, t.Category, t.Method, t.CardID); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *transactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, id`
	return r.query(ctx, q)
}

func (r *transactionRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE project_id=$1 ORDER BY date DESC, id`
	return r.query(ctx, q, projectID)
}

func (r *transactionRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE project_id=$1`, projectID); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

func (r *transactionRepository) query(ctx context.Context, q string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var res []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	if err := row.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Type,
		&t.ProjectID, &t.Category, &t.Method, &t.CardID); err != nil {
		return nil, err
	}
	return &t, nil
}

type cardRepository struct {
	db DBTX
}

func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, c *models.Card) error {
	const q = `
		INSERT INTO cards (id, bank_name, card_holder_name, last_four_digits, balance)
		VALUES ($1,$2,$3,$4,$5)
	`
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.BankName, c.CardHolderName, c.LastFourDigits, c.Balance); err != nil {
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	const q = `SELECT id, bank_name, card_holder_name, last_four_digits, balance FROM cards WHERE id=$1`
	var c models.Card
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.BankName, &c.CardHolderName, &c.LastFourDigits, &c.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context) ([]*models.Card, error) {
	const q = `SELECT id, bank_name, card_holder_name, last_four_digits, balance FROM cards ORDER BY bank_name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var res []*models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.BankName, &c.CardHolderName, &c.LastFourDigits, &c.Balance); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *cardRepository) AdjustBalance(ctx context.Context, id string, delta float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE cards SET balance = balance + $1 WHERE id=$2`, delta, id)
	if err != nil {
		return fmt.Errorf("adjust card balance: %w", err)
	}
	return expectOneRow(res, "adjust card balance")
}
