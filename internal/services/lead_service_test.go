package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/models"
	"vena/internal/repositories/memory"
)

func newLeadService(t *testing.T) (*LeadService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	s := NewLeadService(store, silentNotifier(store))
	s.Now = fixedClock
	return s, store
}

func TestLeadService_Create(t *testing.T) {
	s, _ := newLeadService(t)
	lead, err := s.Create(context.Background(), &models.AddLeadForm{Name: "  Sari ", Location: "Bogor, Jawa Barat"})
	require.NoError(t, err)
	assert.Equal(t, "Sari", lead.Name)
	assert.Equal(t, models.LeadDiscussion, lead.Status)
	assert.Equal(t, models.ChannelOther, lead.ContactChannel)
	assert.Equal(t, testNow, lead.Date)

	_, err = s.Create(context.Background(), &models.AddLeadForm{Name: " "})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestLeadService_CapturePublicNotifies(t *testing.T) {
	s, store := newLeadService(t)
	ctx := context.Background()
	lead, err := s.CapturePublic(ctx, &models.AddLeadForm{Name: "Tari"})
	require.NoError(t, err)
	assert.Equal(t, models.ChannelSuggestionForm, lead.ContactChannel)

	list, err := store.Repos().Notifications.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New inquiry", list[0].Title)
	assert.Equal(t, models.IconLead, list[0].Icon)
}

func TestLeadService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("follow up re-stamps the date", func(t *testing.T) {
		s, store := newLeadService(t)
		seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
		lead, err := s.UpdateStatus(ctx, "L1", models.LeadFollowUp)
		require.NoError(t, err)
		assert.Equal(t, models.LeadFollowUp, lead.Status)
		assert.Equal(t, testNow, lead.Date)
	})

	t.Run("converted needs the conversion flow", func(t *testing.T) {
		s, store := newLeadService(t)
		seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
		_, err := s.UpdateStatus(ctx, "L1", models.LeadConverted)
		require.ErrorIs(t, err, ErrConversionRequired)
	})

	t.Run("follow up cannot go back to discussion", func(t *testing.T) {
		s, store := newLeadService(t)
		seedLead(t, store, "L1", "Dewi", models.LeadFollowUp)
		_, err := s.UpdateStatus(ctx, "L1", models.LeadDiscussion)
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("terminal leads never move", func(t *testing.T) {
		for _, from := range []models.LeadStatus{models.LeadConverted, models.LeadRejected} {
			s, store := newLeadService(t)
			seedLead(t, store, "L1", "Dewi", from)
			for _, to := range []models.LeadStatus{models.LeadDiscussion, models.LeadFollowUp, models.LeadRejected} {
				_, err := s.UpdateStatus(ctx, "L1", to)
				require.ErrorIs(t, err, ErrLeadTerminal)
			}
			lead, err := s.Get(ctx, "L1")
			require.NoError(t, err)
			assert.Equal(t, from, lead.Status)
		}
	})

	t.Run("unknown lead", func(t *testing.T) {
		s, _ := newLeadService(t)
		_, err := s.UpdateStatus(ctx, "nope", models.LeadRejected)
		require.ErrorIs(t, err, ErrLeadNotFound)
	})
}

func TestLeadService_UpdateKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s, store := newLeadService(t)
	seedLead(t, store, "L1", "Dewi", models.LeadFollowUp)

	lead, err := s.Update(ctx, &models.EditLeadForm{ID: "L1", Name: "Dewi Lestari", Location: "Cimahi"})
	require.NoError(t, err)
	assert.Equal(t, "Dewi Lestari", lead.Name)
	assert.Equal(t, models.LeadFollowUp, lead.Status)
	assert.Equal(t, models.ChannelWebsite, lead.ContactChannel)

	seedLead(t, store, "L2", "Rudi", models.LeadRejected)
	_, err = s.Update(ctx, &models.EditLeadForm{ID: "L2", Name: "Rudi"})
	require.ErrorIs(t, err, ErrLeadTerminal)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(models.LeadDiscussion, models.LeadConverted, LeadTransitions))
	assert.True(t, canTransition(models.LeadFollowUp, models.LeadRejected, LeadTransitions))
	assert.False(t, canTransition(models.LeadConverted, models.LeadRejected, LeadTransitions))
	assert.False(t, canTransition(models.LeadStatus("Ghost"), models.LeadFollowUp, LeadTransitions))

	assert.True(t, canTransition(models.BookingNew, models.BookingConfirmed, BookingTransitions))
	assert.False(t, canTransition(models.BookingConfirmed, models.BookingRejected, BookingTransitions))
}
