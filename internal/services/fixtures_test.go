package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vena/internal/locks"
	"vena/internal/models"
	"vena/internal/pricing"
	"vena/internal/repositories"
	"vena/internal/repositories/memory"
)

var testNow = time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func intPtr(v int) *int { return &v }

// hookStore runs beforeTx once, right before the next unit of work starts.
type hookStore struct {
	*memory.Store
	beforeTx func()
}

func (s *hookStore) WithinTx(ctx context.Context, fn func(r repositories.Repos) error) error {
	if hook := s.beforeTx; hook != nil {
		s.beforeTx = nil
		hook()
	}
	return s.Store.WithinTx(ctx, fn)
}

// seedCatalog loads the catalog used throughout the service tests.
func seedCatalog(t *testing.T, store repositories.Store) {
	t.Helper()
	ctx := context.Background()
	r := store.Repos()
	require.NoError(t, r.Packages.Create(ctx, &models.Package{ID: "PKG_LAMARAN", Name: "Lamaran", Price: 5_000_000}))
	require.NoError(t, r.Packages.Create(ctx, &models.Package{ID: "PKG_WEDDING", Name: "Wedding", Price: 12_000_000}))
	require.NoError(t, r.AddOns.Create(ctx, &models.AddOn{ID: "ADD_DRONE", Name: "Drone", Price: 1_500_000}))
	require.NoError(t, r.Cards.Create(ctx, &models.Card{ID: "CARD001", BankName: "BCA", LastFourDigits: "1234"}))
	require.NoError(t, r.PromoCodes.Create(ctx, &models.PromoCode{
		ID: "PROMO_VENA10", Code: "VENA10", DiscountType: models.DiscountPercentage, DiscountValue: 10,
		IsActive: true, UsageCount: 1, MaxUsage: intPtr(100), CreatedAt: testNow.AddDate(0, -1, 0),
	}))
	require.NoError(t, r.PromoCodes.Create(ctx, &models.PromoCode{
		ID: "PROMO_LAST", Code: "LASTONE", DiscountType: models.DiscountFixed, DiscountValue: 500_000,
		IsActive: true, UsageCount: 0, MaxUsage: intPtr(1), CreatedAt: testNow.AddDate(0, -1, 0),
	}))
}

func seedLead(t *testing.T, store repositories.Store, id, name string, status models.LeadStatus) {
	t.Helper()
	require.NoError(t, store.Repos().Leads.Create(context.Background(), &models.Lead{
		ID: id, Name: name, ContactChannel: models.ChannelWebsite, Location: "Bandung",
		Status: status, Date: testNow.AddDate(0, 0, -3), Notes: "asked about lamaran",
	}))
}

func newConversionService(store repositories.Store, notifier Notifier) (*ConversionService, *locks.LocalLocker) {
	locker := locks.NewLocalLocker()
	s := NewConversionService(store, pricing.NewCalculator(fixedClock), locker, notifier, "DP Proyek")
	s.Now = fixedClock
	return s, locker
}

// silentNotifier stores notifications without any fan out.
func silentNotifier(store repositories.Store) *NotificationService {
	n := NewNotificationService(store, nil, nil)
	n.Now = fixedClock
	return n
}

func countAll(t *testing.T, store repositories.Store) (clients, projects, txns int) {
	t.Helper()
	ctx := context.Background()
	cs, err := store.Repos().Clients.List(ctx)
	require.NoError(t, err)
	ps, err := store.Repos().Projects.List(ctx)
	require.NoError(t, err)
	ts, err := store.Repos().Transactions.List(ctx)
	require.NoError(t, err)
	return len(cs), len(ps), len(ts)
}
