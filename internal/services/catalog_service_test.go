package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/models"
	"vena/internal/pricing"
	"vena/internal/repositories/memory"
)

func newCatalogService(t *testing.T) (*CatalogService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seedCatalog(t, store)
	s := NewCatalogService(store, pricing.NewCalculator(fixedClock))
	s.Now = fixedClock
	return s, store
}

func TestCatalogService_Preview(t *testing.T) {
	ctx := context.Background()
	s, store := newCatalogService(t)

	got, err := s.Preview(ctx, PreviewRequest{PackageID: "PKG_WEDDING", AddOnIDs: []string{"ADD_DRONE"}, PromoCode: "VENA10", Deposit: 3_000_000})
	require.NoError(t, err)
	assert.Equal(t, 13_500_000.0, got.Subtotal)
	assert.Equal(t, 1_350_000.0, got.DiscountAmount)
	assert.Equal(t, "10%", got.DiscountDisplay)
	assert.Equal(t, 12_150_000.0, got.Total)
	assert.Equal(t, 9_150_000.0, got.Remaining)

	promo, err := store.Repos().PromoCodes.GetByID(ctx, "PROMO_VENA10")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.UsageCount, "preview must not consume the promo")

	_, err = s.Preview(ctx, PreviewRequest{})
	require.ErrorIs(t, err, ErrMissingPackage)
	_, err = s.Preview(ctx, PreviewRequest{PackageID: "PKG_LAMARAN", Deposit: -1})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestCatalogService_PromoCodes(t *testing.T) {
	ctx := context.Background()
	s, _ := newCatalogService(t)

	p := &models.PromoCode{Code: "HEMAT", DiscountType: models.DiscountFixed, DiscountValue: 250_000, IsActive: true, UsageCount: 40}
	require.NoError(t, s.CreatePromo(ctx, p))
	assert.Zero(t, p.UsageCount)
	assert.Equal(t, testNow, p.CreatedAt)

	require.ErrorIs(t, s.CreatePromo(ctx, &models.PromoCode{Code: "hemat", DiscountType: models.DiscountFixed, DiscountValue: 1}), ErrDuplicatePromoCode)
	require.ErrorIs(t, s.CreatePromo(ctx, &models.PromoCode{Code: "BIG", DiscountType: models.DiscountPercentage, DiscountValue: 120}), models.ErrValidation)
	require.ErrorIs(t, s.CreatePromo(ctx, &models.PromoCode{Code: "ODD", DiscountType: "bogo", DiscountValue: 1}), models.ErrValidation)

	edit := *p
	edit.IsActive = false
	edit.UsageCount = 99
	updated, err := s.UpdatePromo(ctx, &edit)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Zero(t, updated.UsageCount)

	clash := *p
	clash.Code = "VENA10"
	_, err = s.UpdatePromo(ctx, &clash)
	require.ErrorIs(t, err, ErrDuplicatePromoCode)
}

func TestCatalogService_Packages(t *testing.T) {
	ctx := context.Background()
	s, _ := newCatalogService(t)

	pkg := &models.Package{Name: " Prewedding ", Price: 3_500_000, DigitalItems: []string{"50 edited photos"}}
	require.NoError(t, s.CreatePackage(ctx, pkg))
	assert.NotEmpty(t, pkg.ID)
	assert.Equal(t, "Prewedding", pkg.Name)

	require.ErrorIs(t, s.CreatePackage(ctx, &models.Package{Name: "Bad", Price: -1}), models.ErrValidation)
	require.ErrorIs(t, s.UpdatePackage(ctx, &models.Package{ID: "nope", Name: "X"}), ErrPackageNotFound)

	catalog, err := s.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog.Packages, 3)
	assert.Len(t, catalog.AddOns, 1)
}
