package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vena/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	// Update never rewrites the portal access id.
	Update(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetByPortalToken(ctx context.Context, token string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, name, email, phone, whatsapp, instagram, client_type, status, since, last_contact, portal_access_id`

func (r *clientRepository) Create(ctx context.Context, c *models.Client) error {
	const q = `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.WhatsApp, c.Instagram,
		c.ClientType, c.Status, c.Since, c.LastContact, c.PortalAccessID); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Update(ctx context.Context, c *models.Client) error {
	const q = `
		UPDATE clients
		SET name=$1, email=$2, phone=$3, whatsapp=$4, instagram=$5, client_type=$6, status=$7, last_contact=$8
		WHERE id=$9
	`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Email, c.Phone, c.WhatsApp, c.Instagram,
		c.ClientType, c.Status, c.LastContact, c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return expectOneRow(res, "update client")
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *clientRepository) GetByPortalToken(ctx context.Context, token string) (*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE portal_access_id=$1`
	return r.getOne(ctx, q, token)
}

func (r *clientRepository) getOne(ctx context.Context, q string, arg any) (*models.Client, error) {
	c, err := scanClient(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients ORDER BY since DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var res []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return expectOneRow(res, "delete client")
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.WhatsApp, &c.Instagram,
		&c.ClientType, &c.Status, &c.Since, &c.LastContact, &c.PortalAccessID); err != nil {
		return nil, err
	}
	return &c, nil
}
