package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/models"
)

func TestClientService_CreateAndUpdateKeepToken(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	s := NewClientService(f.store)
	s.Now = fixedClock

	c := &models.Client{Name: "Bima", Email: "bima@example.com"}
	require.NoError(t, s.Create(ctx, c))
	assert.Len(t, c.PortalAccessID, 32)
	assert.Equal(t, models.ClientDirect, c.ClientType)
	assert.Equal(t, models.ClientActive, c.Status)

	token := c.PortalAccessID
	updated, err := s.Update(ctx, &models.Client{ID: c.ID, Name: "Bima Sakti", PortalAccessID: "forged"})
	require.NoError(t, err)
	assert.Equal(t, token, updated.PortalAccessID)
	assert.Equal(t, testNow, updated.Since)

	_, err = s.Update(ctx, &models.Client{ID: "missing", Name: "X"})
	require.ErrorIs(t, err, ErrClientNotFound)
	require.ErrorIs(t, s.Create(ctx, &models.Client{Name: "Y", ClientType: "Partner"}), models.ErrValidation)
}

func TestClientService_Portal(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	s := NewClientService(f.store)

	view, err := s.Portal(ctx, f.booking.Client.PortalAccessID)
	require.NoError(t, err)
	assert.Equal(t, f.booking.Client.ID, view.Client.ID)
	require.Len(t, view.Projects, 1)
	assert.Equal(t, f.booking.Project.ID, view.Projects[0].ID)

	_, err = s.Portal(ctx, "")
	require.ErrorIs(t, err, ErrClientNotFound)
	_, err = s.Portal(ctx, "0123456789abcdef0123456789abcdef")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	s := NewClientService(f.store)

	require.NoError(t, s.Delete(ctx, f.booking.Client.ID))
	clients, projects, txns := countAll(t, f.store)
	assert.Zero(t, clients)
	assert.Zero(t, projects)
	assert.Zero(t, txns)

	card, err := f.store.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	assert.Equal(t, 2_000_000.0, card.Balance)

	require.ErrorIs(t, s.Delete(ctx, f.booking.Client.ID), ErrClientNotFound)
}

func TestClientService_TouchLastContact(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	s := NewClientService(f.store)
	later := testNow.AddDate(0, 0, 7)
	s.Now = func() time.Time { return later }

	c, err := s.TouchLastContact(ctx, f.booking.Client.ID)
	require.NoError(t, err)
	assert.Equal(t, later, c.LastContact)
	assert.Equal(t, testNow, c.Since)
}
