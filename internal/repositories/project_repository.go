package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vena/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// GetForUpdate also locks the row until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Project, error)
	DeleteByClient(ctx context.Context, clientID string) error
}

type projectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, project_name, client_name, client_id, project_type, package_name, package_id,
	add_ons, date, location, progress, total_cost, amount_paid, payment_status, booking_status,
	promo_code_id, discount_amount, deposit_proof, payment_reference, team, notes, created_at`

func (r *projectRepository) Create(ctx context.Context, p *models.Project) error {
	addOns, team, err := encodeProjectSnapshots(p)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	const q = `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`
	if _, err := r.db.ExecContext(ctx, q,
		p.ID, p.ProjectName, p.ClientName, p.ClientID, p.ProjectType, p.PackageName, p.PackageID,
		addOns, p.Date, p.Location, p.Progress, p.TotalCost, p.AmountPaid, p.PaymentStatus, p.BookingStatus,
		p.PromoCodeID, p.DiscountAmount, p.DepositProof, p.PaymentReference, team, p.Notes, p.CreatedAt,
	); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *projectRepository) Update(ctx context.Context, p *models.Project) error {
	addOns, team, err := encodeProjectSnapshots(p)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	const q = `
		UPDATE projects SET
			project_name=$1, client_name=$2, project_type=$3, add_ons=$4, date=$5, location=$6,
			progress=$7, total_cost=$8, amount_paid=$9, payment_status=$10, booking_status=$11,
			deposit_proof=$12, payment_reference=$13, team=$14, notes=$15
		WHERE id=$16
	`
	res, err := r.db.ExecContext(ctx, q,
		p.ProjectName, p.ClientName, p.ProjectType, addOns, p.Date, p.Location,
		p.Progress, p.TotalCost, p.AmountPaid, p.PaymentStatus, p.BookingStatus,
		p.DepositProof, p.PaymentReference, team, p.Notes, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return expectOneRow(res, "update project")
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *projectRepository) GetForUpdate(ctx context.Context, id string) (*models.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1 FOR UPDATE`
	return r.getOne(ctx, q, id)
}

func (r *projectRepository) getOne(ctx context.Context, q, id string) (*models.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id`
	return r.query(ctx, q)
}

func (r *projectRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE client_id=$1 ORDER BY created_at DESC, id`
	return r.query(ctx, q, clientID)
}

func (r *projectRepository) DeleteByClient(ctx context.Context, clientID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE client_id=$1`, clientID); err != nil {
		return fmt.Errorf("delete projects: %w", err)
	}
	return nil
}

func (r *projectRepository) query(ctx context.Context, q string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var res []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func scanProject(row rowScanner) (*models.Project, error) {
	var (
		p            models.Project
		addOns, team []byte
	)
	if err := row.Scan(
		&p.ID, &p.ProjectName, &p.ClientName, &p.ClientID, &p.ProjectType, &p.PackageName, &p.PackageID,
		&addOns, &p.Date, &p.Location, &p.Progress, &p.TotalCost, &p.AmountPaid, &p.PaymentStatus, &p.BookingStatus,
		&p.PromoCodeID, &p.DiscountAmount, &p.DepositProof, &p.PaymentReference, &team, &p.Notes, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addOns, &p.AddOns); err != nil {
		return nil, fmt.Errorf("decode add_ons: %w", err)
	}
	if err := json.Unmarshal(team, &p.Team); err != nil {
		return nil, fmt.Errorf("decode team: %w", err)
	}
	return &p, nil
}

func encodeProjectSnapshots(p *models.Project) (addOns, team []byte, err error) {
	if p.AddOns == nil {
		p.AddOns = []models.AddOn{}
	}
	if p.Team == nil {
		p.Team = []models.TeamAssignment{}
	}
	if addOns, err = json.Marshal(p.AddOns); err != nil {
		return nil, nil, err
	}
	if team, err = json.Marshal(p.Team); err != nil {
		return nil, nil, err
	}
	return addOns, team, nil
}
