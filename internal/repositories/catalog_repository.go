package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vena/internal/models"
)

type PackageRepository interface {
	Create(ctx context.Context, p *models.Package) error
	Update(ctx context.Context, p *models.Package) error
	GetByID(ctx context.Context, id string) (*models.Package, error)
	List(ctx context.Context) ([]*models.Package, error)
}

type AddOnRepository interface {
	Create(ctx context.Context, a *models.AddOn) error
	GetByID(ctx context.Context, id string) (*models.AddOn, error)
	List(ctx context.Context) ([]*models.AddOn, error)
}

type PromoCodeRepository interface {
	Create(ctx context.Context, p *models.PromoCode) error
	Update(ctx context.Context, p *models.PromoCode) error
	GetByID(ctx context.Context, id string) (*models.PromoCode, error)
	// GetByCode matches case-insensitively.
	GetByCode(ctx context.Context, code string) (*models.PromoCode, error)
	List(ctx context.Context) ([]*models.PromoCode, error)
	// IncrementUsage adds one use, failing with ErrConflict when the cap is already reached.
	IncrementUsage(ctx context.Context, id string) error
}

// ---- packages

type packageRepository struct {
	db DBTX
}

func NewPackageRepository(db DBTX) PackageRepository {
	return &packageRepository{db: db}
}

const packageColumns = `id, name, price, physical_items, digital_items, processing_time,
	default_printing_cost, default_transport_cost, team_composition, cover_image`

func (r *packageRepository) Create(ctx context.Context, p *models.Package) error {
	items, err := encodePhysicalItems(p)
	if err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	const q = `
		INSERT INTO packages (` + packageColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Price, items, pq.Array(p.DigitalItems),
		p.ProcessingTime, p.DefaultPrintingCost, p.DefaultTransportCost, p.TeamComposition, p.CoverImage); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

func (r *packageRepository) Update(ctx context.Context, p *models.Package) error {
	items, err := encodePhysicalItems(p)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	const q = `
		UPDATE packages SET
			name=$1, price=$2, physical_items=$3, digital_items=$4, processing_time=$5,
			default_printing_cost=$6, default_transport_cost=$7, team_composition=$8, cover_image=$9
		WHERE id=$10
	`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Price, items, pq.Array(p.DigitalItems), p.ProcessingTime,
		p.DefaultPrintingCost, p.DefaultTransportCost, p.TeamComposition, p.CoverImage, p.ID)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	return expectOneRow(res, "update package")
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*models.Package, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE id=$1`
	p, err := scanPackage(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get package: %w", err)
	}
	return p, nil
}

func (r *packageRepository) List(ctx context.Context) ([]*models.Package, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages ORDER BY price, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var res []*models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func scanPackage(row rowScanner) (*models.Package, error) {
	var (
		p                   models.Package
		items               []byte
		printing, transport sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &items, pq.Array(&p.DigitalItems), &p.ProcessingTime,
		&printing, &transport, &p.TeamComposition, &p.CoverImage); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &p.PhysicalItems); err != nil {
		return nil, fmt.Errorf("decode physical_items: %w", err)
	}
	if printing.Valid {
		p.DefaultPrintingCost = &printing.Float64
	}
	if transport.Valid {
		p.DefaultTransportCost = &transport.Float64
	}
	return &p, nil
}

func encodePhysicalItems(p *models.Package) ([]byte, error) {
	if p.PhysicalItems == nil {
		p.PhysicalItems = []models.PhysicalItem{}
	}
	if p.DigitalItems == nil {
		p.DigitalItems = []string{}
	}
	return json.Marshal(p.PhysicalItems)
}

// ---- add-ons

type addOnRepository struct {
	db DBTX
}

func NewAddOnRepository(db DBTX) AddOnRepository {
	return &addOnRepository{db: db}
}

func (r *addOnRepository) Create(ctx context.Context, a *models.AddOn) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO add_ons (id, name, price) VALUES ($1,$2,$3)`,
		a.ID, a.Name, a.Price); err != nil {
		return fmt.Errorf("create add-on: %w", err)
	}
	return nil
}

func (r *addOnRepository) GetByID(ctx context.Context, id string) (*models.AddOn, error) {
	var a models.AddOn
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM add_ons WHERE id=$1`, id).Scan(&a.ID, &a.Name, &a.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get add-on: %w", err)
	}
	return &a, nil
}

func (r *addOnRepository) List(ctx context.Context) ([]*models.AddOn, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price FROM add_ons ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list add-ons: %w", err)
	}
	defer rows.Close()

	var res []*models.AddOn
	for rows.Next() {
		var a models.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			return nil, fmt.Errorf("scan add-on: %w", err)
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

// ---- promo codes

type promoCodeRepository struct {
	db DBTX
}

func NewPromoCodeRepository(db DBTX) PromoCodeRepository {
	return &promoCodeRepository{db: db}
}

const promoColumns = `id, code, discount_type, discount_value, is_active, usage_count, max_usage, expiry_date, created_at`

func (r *promoCodeRepository) Create(ctx context.Context, p *models.PromoCode) error {
	const q = `
		INSERT INTO promo_codes (` + promoColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	if _, err := r.db.ExecContext(ctx, q, p.ID, p.Code, p.DiscountType, p.DiscountValue, p.IsActive,
		p.UsageCount, p.MaxUsage, p.ExpiryDate, p.CreatedAt); err != nil {
		return fmt.Errorf("create promo code: %w", err)
	}
	return nil
}

// Update leaves usage_count alone; only IncrementUsage moves it.
func (r *promoCodeRepository) Update(ctx context.Context, p *models.PromoCode) error {
	const q = `
		UPDATE promo_codes
		SET code=$1, discount_type=$2, discount_value=$3, is_active=$4, max_usage=$5, expiry_date=$6
		WHERE id=$7
	`
	res, err := r.db.ExecContext(ctx, q, p.Code, p.DiscountType, p.DiscountValue, p.IsActive,
		p.MaxUsage, p.ExpiryDate, p.ID)
	if err != nil {
		return fmt.Errorf("update promo code: %w", err)
	}
	return expectOneRow(res, "update promo code")
}

func (r *promoCodeRepository) GetByID(ctx context.Context, id string) (*models.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE id=$1`
	return r.getOne(ctx, q, id)
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes WHERE LOWER(code)=LOWER($1)`
	return r.getOne(ctx, q, code)
}

func (r *promoCodeRepository) getOne(ctx context.Context, q string, arg any) (*models.PromoCode, error) {
	p, err := scanPromo(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promo code: %w", err)
	}
	return p, nil
}

func (r *promoCodeRepository) List(ctx context.Context) ([]*models.PromoCode, error) {
	const q = `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	defer rows.Close()

	var res []*models.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo code: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *promoCodeRepository) IncrementUsage(ctx context.Context, id string) error {
	const q = `
		UPDATE promo_codes
		SET usage_count = usage_count + 1
		WHERE id=$1 AND (max_usage IS NULL OR usage_count < max_usage)
	`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}
	if n == 0 {
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("increment promo usage: %w", ErrNotFound)
		}
		return fmt.Errorf("increment promo usage: %w", ErrConflict)
	}
	return nil
}

func scanPromo(row rowScanner) (*models.PromoCode, error) {
	var (
		p        models.PromoCode
		maxUsage sql.NullInt64
		expiry   sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.Code, &p.DiscountType, &p.DiscountValue, &p.IsActive, &p.UsageCount,
		&maxUsage, &expiry, &p.CreatedAt); err != nil {
		return nil, err
	}
	if maxUsage.Valid {
		v := int(maxUsage.Int64)
		p.MaxUsage = &v
	}
	if expiry.Valid {
		p.ExpiryDate = &expiry.Time
	}
	return &p, nil
}
