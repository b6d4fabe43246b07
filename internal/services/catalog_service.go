package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vena/internal/models"
	"vena/internal/pricing"
	"vena/internal/repositories"
)

type CatalogService struct {
	Store   repositories.Store
	Pricing *pricing.Calculator
	Now     func() time.Time
}

func NewCatalogService(store repositories.Store, calc *pricing.Calculator) *CatalogService {
	return &CatalogService{Store: store, Pricing: calc, Now: time.Now}
}

// Catalog is what the public booking page needs to render choices.
type Catalog struct {
	Packages []*models.Package `json:"packages"`
	AddOns   []*models.AddOn   `json:"add_ons"`
}

type PreviewRequest struct {
	PackageID string   `json:"package_id"`
	AddOnIDs  []string `json:"add_on_ids"`
	PromoCode string   `json:"promo_code"`
	Deposit   float64  `json:"deposit_amount"`
}

// selection is a package choice resolved against the catalog. AddOns are copies,
// so later catalog edits never reach an already booked project.
type selection struct {
	Package models.Package
	AddOns  []models.AddOn
	Promo   *models.PromoCode
}

func resolveSelection(ctx context.Context, r repositories.Repos, packageID string, addOnIDs []string, promoCode string) (*selection, error) {
	pkg, err := r.Packages.GetByID(ctx, strings.TrimSpace(packageID))
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrMissingPackage
	}
	sel := &selection{Package: *pkg, AddOns: make([]models.AddOn, 0, len(addOnIDs))}

	seen := make(map[string]bool, len(addOnIDs))
	for _, id := range addOnIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		a, err := r.AddOns.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, &models.ValidationError{Field: "add_on_ids", Message: fmt.Sprintf("unknown add-on %q", id)}
		}
		sel.AddOns = append(sel.AddOns, *a)
	}

	if code := strings.TrimSpace(promoCode); code != "" {
		if sel.Promo, err = r.PromoCodes.GetByCode(ctx, code); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func (s *CatalogService) Catalog(ctx context.Context) (*Catalog, error) {
	repos := s.Store.Repos()
	pkgs, err := repos.Packages.List(ctx)
	if err != nil {
		return nil, err
	}
	addOns, err := repos.AddOns.List(ctx)
	if err != nil {
		return nil, err
	}
	return &Catalog{Packages: pkgs, AddOns: addOns}, nil
}

// Preview prices a selection without writing anything.
func (s *CatalogService) Preview(ctx context.Context, req PreviewRequest) (pricing.Breakdown, error) {
	if req.Deposit < 0 {
		return pricing.Breakdown{}, &models.ValidationError{Field: "deposit_amount", Message: "deposit cannot be negative"}
	}
	sel, err := resolveSelection(ctx, s.Store.Repos(), req.PackageID, req.AddOnIDs, req.PromoCode)
	if err != nil {
		return pricing.Breakdown{}, err
	}
	return s.Pricing.Compute(pricing.Request{
		Package:   sel.Package,
		AddOns:    sel.AddOns,
		PromoCode: req.PromoCode,
		Promo:     sel.Promo,
		Deposit:   req.Deposit,
	}), nil
}

// ---- packages

func validatePackage(p *models.Package) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return &models.ValidationError{Field: "name", Message: "package name is required"}
	}
	if p.Price < 0 {
		return &models.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	for _, it := range p.PhysicalItems {
		if it.Price < 0 {
			return &models.ValidationError{Field: "physical_items", Message: "item price cannot be negative"}
		}
	}
	return nil
}

func (s *CatalogService) CreatePackage(ctx context.Context, p *models.Package) error {
	if err := validatePackage(p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.Store.Repos().Packages.Create(ctx, p)
}

func (s *CatalogService) UpdatePackage(ctx context.Context, p *models.Package) error {
	if err := validatePackage(p); err != nil {
		return err
	}
	err := s.Store.Repos().Packages.Update(ctx, p)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPackageNotFound
	}
	return err
}

func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	p, err := s.Store.Repos().Packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPackageNotFound
	}
	return p, nil
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]*models.Package, error) {
	return s.Store.Repos().Packages.List(ctx)
}

// ---- add-ons

func (s *CatalogService) CreateAddOn(ctx context.Context, a *models.AddOn) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return &models.ValidationError{Field: "name", Message: "add-on name is required"}
	}
	if a.Price < 0 {
		return &models.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.Store.Repos().AddOns.Create(ctx, a)
}

func (s *CatalogService) ListAddOns(ctx context.Context) ([]*models.AddOn, error) {
	return s.Store.Repos().AddOns.List(ctx)
}

// ---- promo codes

func validatePromo(p *models.PromoCode) error {
	p.Code = strings.TrimSpace(p.Code)
	if p.Code == "" {
		return &models.ValidationError{Field: "code", Message: "promo code is required"}
	}
	switch p.DiscountType {
	case models.DiscountPercentage:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return &models.ValidationError{Field: "discount_value", Message: "percentage must be between 0 and 100"}
		}
	case models.DiscountFixed:
		if p.DiscountValue <= 0 {
			return &models.ValidationError{Field: "discount_value", Message: "discount must be positive"}
		}
	default:
		return &models.ValidationError{Field: "discount_type", Message: "discount type must be percentage or fixed"}
	}
	if p.MaxUsage != nil && *p.MaxUsage < 0 {
		return &models.ValidationError{Field: "max_usage", Message: "max usage cannot be negative"}
	}
	return nil
}

func (s *CatalogService) CreatePromo(ctx context.Context, p *models.PromoCode) error {
	if err := validatePromo(p); err != nil {
		return err
	}
	repos := s.Store.Repos()
	existing, err := repos.PromoCodes.GetByCode(ctx, p.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicatePromoCode
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UsageCount = 0
	p.CreatedAt = s.Now().UTC()
	return repos.PromoCodes.Create(ctx, p)
}

// UpdatePromo edits the terms of a code; its usage count is never touched here.
func (s *CatalogService) UpdatePromo(ctx context.Context, p *models.PromoCode) (*models.PromoCode, error) {
	if err := validatePromo(p); err != nil {
		return nil, err
	}
	repos := s.Store.Repos()
	clash, err := repos.PromoCodes.GetByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if clash != nil && clash.ID != p.ID {
		return nil, ErrDuplicatePromoCode
	}
	if err := repos.PromoCodes.Update(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	return repos.PromoCodes.GetByID(ctx, p.ID)
}

func (s *CatalogService) ListPromos(ctx context.Context) ([]*models.PromoCode, error) {
	return s.Store.Repos().PromoCodes.List(ctx)
}
