package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vena/internal/models"
	"vena/internal/repositories"
)

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.WithinTx(ctx, func(r repositories.Repos) error {
		if err := r.Clients.Create(ctx, &models.Client{ID: "c1", Name: "Dewi", PortalAccessID: "tok1"}); err != nil {
			return err
		}
		return r.Projects.Create(ctx, &models.Project{ID: "p1", ClientID: "c1", TotalCost: 100})
	})
	require.NoError(t, err)

	p, err := s.Repos().Projects.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "c1", p.ClientID)
}

func TestWithinTx_DiscardsStagedWritesOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Repos().Cards.Create(ctx, &models.Card{ID: "CARD001", BankName: "BCA"}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(r repositories.Repos) error {
		require.NoError(t, r.Cards.AdjustBalance(ctx, "CARD001", 2_000_000))
		require.NoError(t, r.Clients.Create(ctx, &models.Client{ID: "c1", PortalAccessID: "tok"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	card, err := s.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	require.Zero(t, card.Balance)

	c, err := s.Repos().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestProjectCreate_RequiresClient(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.Repos().Projects.Create(ctx, &models.Project{ID: "p1", ClientID: "missing"})
	require.Error(t, err)
}

func TestPromoIncrementUsage_StopsAtCap(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	maxUsage := 2
	require.NoError(t, s.Repos().PromoCodes.Create(ctx, &models.PromoCode{ID: "p", Code: "VENA10", UsageCount: 1, MaxUsage: &maxUsage}))

	require.NoError(t, s.Repos().PromoCodes.IncrementUsage(ctx, "p"))
	err := s.Repos().PromoCodes.IncrementUsage(ctx, "p")
	require.ErrorIs(t, err, repositories.ErrConflict)

	p, err := s.Repos().PromoCodes.GetByCode(ctx, "vena10")
	require.NoError(t, err)
	require.Equal(t, 2, p.UsageCount)

	p, err = s.Repos().PromoCodes.GetByCode(ctx, " Vena10 ")
	require.NoError(t, err)
	require.Equal(t, "p", p.ID)
	p, err = s.Repos().PromoCodes.GetByCode(ctx, "LEBARAN")
	require.NoError(t, err)
	require.Nil(t, p)

	require.ErrorIs(t, s.Repos().PromoCodes.IncrementUsage(ctx, "nope"), repositories.ErrNotFound)
}

func TestClientUpdate_KeepsPortalToken(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Repos().Clients.Create(ctx, &models.Client{ID: "c1", Name: "A", PortalAccessID: "tok", Since: since}))

	require.NoError(t, s.Repos().Clients.Update(ctx, &models.Client{ID: "c1", Name: "B", PortalAccessID: "other"}))

	c, err := s.Repos().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "B", c.Name)
	require.Equal(t, "tok", c.PortalAccessID)
	require.Equal(t, since, c.Since)
}

func TestReturnedProjectsDoNotAliasStoredSlices(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Repos().Clients.Create(ctx, &models.Client{ID: "c1", PortalAccessID: "tok"}))
	require.NoError(t, s.Repos().Projects.Create(ctx, &models.Project{
		ID: "p1", ClientID: "c1", AddOns: []models.AddOn{{ID: "a", Price: 10}},
	}))

	p, err := s.Repos().Projects.GetByID(ctx, "p1")
	require.NoError(t, err)
	p.AddOns[0].Price = 999

	again, err := s.Repos().Projects.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 10.0, again.AddOns[0].Price)
}
