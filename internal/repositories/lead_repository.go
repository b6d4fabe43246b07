package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vena/internal/models"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	// Update succeeds only while the stored status still equals expected,
	// otherwise it returns ErrConflict.
	Update(ctx context.Context, lead *models.Lead, expected models.LeadStatus) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	List(ctx context.Context) ([]*models.Lead, error)
}

type leadRepository struct {
	db DBTX
}

func NewLeadRepository(db DBTX) LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, name, contact_channel, location, status, date, notes, whatsapp`

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	const q = `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	if _, err := r.db.ExecContext(ctx, q, lead.ID, lead.Name, lead.ContactChannel, lead.Location,
		lead.Status, lead.Date, lead.Notes, lead.WhatsApp); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *leadRepository) Update(ctx context.Context, lead *models.Lead, expected models.LeadStatus) error {
	const q = `
		UPDATE leads
		SET name=$1, contact_channel=$2, location=$3, status=$4, date=$5, notes=$6, whatsapp=$7
		WHERE id=$8 AND status=$9
	`
	res, err := r.db.ExecContext(ctx, q, lead.Name, lead.ContactChannel, lead.Location, lead.Status,
		lead.Date, lead.Notes, lead.WhatsApp, lead.ID, expected)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n == 0 {
		existing, err := r.GetByID(ctx, lead.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("update lead: %w", ErrNotFound)
		}
		return fmt.Errorf("update lead: %w", ErrConflict)
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads WHERE id=$1`
	lead, err := scanLead(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *leadRepository) List(ctx context.Context) ([]*models.Lead, error) {
	const q = `SELECT ` + leadColumns + ` FROM leads ORDER BY date DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var res []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		res = append(res, lead)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var l models.Lead
	if err := row.Scan(&l.ID, &l.Name, &l.ContactChannel, &l.Location, &l.Status, &l.Date, &l.Notes, &l.WhatsApp); err != nil {
		return nil, err
	}
	return &l, nil
}
