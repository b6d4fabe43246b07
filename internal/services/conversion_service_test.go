package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"vena/internal/models"
	"vena/internal/repositories/memory"
	"vena/internal/services/mocks"
)

func dewiForm(leadID string) models.ConvertLeadForm {
	return models.ConvertLeadForm{
		LeadID: leadID,
		Booking: models.BookingForm{
			ClientName:        "Dewi",
			Email:             "dewi@example.com",
			WhatsApp:          "628123456789",
			ProjectType:       "Lamaran",
			Location:          "Bandung",
			EventDate:         testNow.AddDate(0, 2, 0),
			PackageID:         "PKG_LAMARAN",
			DepositAmount:     2_000_000,
			DestinationCardID: "CARD001",
		},
	}
}

func TestConvertLead_DewiScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	seedLead(t, store, "LEAD_DEWI", "Dewi", models.LeadDiscussion)

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	var sent models.Notification
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n models.Notification) (*models.Notification, error) {
			sent = n
			return &n, nil
		})

	svc, _ := newConversionService(store, notifier)
	res, err := svc.ConvertLead(ctx, dewiForm("LEAD_DEWI"))
	require.NoError(t, err)

	assert.Equal(t, 5_000_000.0, res.Project.TotalCost)
	assert.Equal(t, 2_000_000.0, res.Project.AmountPaid)
	assert.Equal(t, models.PaymentDeposit, res.Project.PaymentStatus)
	assert.Empty(t, res.Project.BookingStatus)
	assert.Equal(t, res.Client.ID, res.Project.ClientID)
	assert.Equal(t, "Lamaran", res.Project.PackageName)
	assert.Len(t, res.Client.PortalAccessID, 32)

	require.NotNil(t, res.Transaction)
	assert.Equal(t, 2_000_000.0, res.Transaction.Amount)
	assert.Equal(t, models.TransactionIncome, res.Transaction.Type)
	assert.Equal(t, res.Project.ID, res.Transaction.ProjectID)
	assert.Equal(t, "CARD001", res.Transaction.CardID)
	assert.Equal(t, "DP Proyek", res.Transaction.Category)

	card, err := store.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	assert.Equal(t, 2_000_000.0, card.Balance)

	lead, err := store.Repos().Leads.GetByID(ctx, "LEAD_DEWI")
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, lead.Status)
	assert.True(t, strings.HasPrefix(lead.Notes, "asked about lamaran\n"))
	assert.Contains(t, lead.Notes, "Converted to client "+res.Client.ID)

	txns, err := store.Repos().Transactions.ListByProject(ctx, res.Project.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	assert.Equal(t, "Lead converted", sent.Title)
	assert.Equal(t, models.IconLead, sent.Icon)
	require.NotNil(t, sent.Link)
	assert.Equal(t, "projects", sent.Link.View)
	assert.Equal(t, res.Project.ID, sent.Link.Action)
	assert.NotNil(t, res.Notification)
}

func TestConvertLead_AppliesPromoAndCountsUsage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Rina", models.LeadFollowUp)
	svc, _ := newConversionService(store, silentNotifier(store))

	form := dewiForm("L1")
	form.Booking.ClientName = "Rina"
	form.Booking.AddOnIDs = []string{"ADD_DRONE", "ADD_DRONE"}
	form.Booking.PromoCode = "vena10"
	form.Booking.DepositAmount = 0
	form.Booking.DestinationCardID = ""

	res, err := svc.ConvertLead(ctx, form)
	require.NoError(t, err)

	assert.Len(t, res.Project.AddOns, 1)
	assert.Equal(t, 6_500_000.0, res.Pricing.Subtotal)
	assert.Equal(t, 650_000.0, res.Pricing.DiscountAmount)
	assert.Equal(t, 5_850_000.0, res.Project.TotalCost)
	assert.Equal(t, "PROMO_VENA10", res.Project.PromoCodeID)
	assert.Equal(t, models.PaymentUnpaid, res.Project.PaymentStatus)
	assert.Nil(t, res.Transaction)

	promo, err := store.Repos().PromoCodes.GetByID(ctx, "PROMO_VENA10")
	require.NoError(t, err)
	assert.Equal(t, 2, promo.UsageCount)
	require.NotNil(t, res.PromoCode)
	assert.Equal(t, 2, res.PromoCode.UsageCount)
}

func TestConvertLead_InvalidPromoIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Rina", models.LeadDiscussion)
	svc, _ := newConversionService(store, silentNotifier(store))

	form := dewiForm("L1")
	form.Booking.PromoCode = "NOPE"
	res, err := svc.ConvertLead(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, 5_000_000.0, res.Project.TotalCost)
	assert.Empty(t, res.Project.PromoCodeID)
	assert.False(t, res.Pricing.PromoApplied())
}

func TestConvertLead_RejectsWithoutWriting(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ConvertLeadForm)
		want   error
	}{
		{"missing package", func(f *models.ConvertLeadForm) { f.Booking.PackageID = "" }, models.ErrValidation},
		{"unknown package", func(f *models.ConvertLeadForm) { f.Booking.PackageID = "PKG_GONE" }, ErrMissingPackage},
		{"unknown card", func(f *models.ConvertLeadForm) { f.Booking.DestinationCardID = "CARD999" }, ErrCardNotFound},
		{"deposit above total", func(f *models.ConvertLeadForm) { f.Booking.DepositAmount = 5_000_001 }, models.ErrValidation},
		{"unknown add-on", func(f *models.ConvertLeadForm) { f.Booking.AddOnIDs = []string{"ADD_NONE"} }, models.ErrValidation},
		{"unknown lead", func(f *models.ConvertLeadForm) { f.LeadID = "L404" }, ErrLeadNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			seedCatalog(t, store)
			seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
			svc, _ := newConversionService(store, silentNotifier(store))

			form := dewiForm("L1")
			tc.mutate(&form)
			_, err := svc.ConvertLead(ctx, form)
			require.ErrorIs(t, err, tc.want)

			clients, projects, txns := countAll(t, store)
			assert.Zero(t, clients)
			assert.Zero(t, projects)
			assert.Zero(t, txns)
			lead, err := store.Repos().Leads.GetByID(ctx, "L1")
			require.NoError(t, err)
			assert.Equal(t, models.LeadDiscussion, lead.Status)
		})
	}
}

func TestConvertLead_TerminalLeadStaysTerminal(t *testing.T) {
	for _, status := range []models.LeadStatus{models.LeadConverted, models.LeadRejected} {
		t.Run(string(status), func(t *testing.T) {
			store := memory.NewStore()
			seedCatalog(t, store)
			seedLead(t, store, "L1", "Dewi", status)
			svc, _ := newConversionService(store, silentNotifier(store))

			_, err := svc.ConvertLead(context.Background(), dewiForm("L1"))
			require.ErrorIs(t, err, ErrLeadTerminal)
			clients, _, _ := countAll(t, store)
			assert.Zero(t, clients)
		})
	}
}

func TestConvertLead_PromoExhaustedAtCommitRollsBack(t *testing.T) {
	ctx := context.Background()
	store := &hookStore{Store: memory.NewStore()}
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
	svc, _ := newConversionService(store, silentNotifier(store))

	// another booking takes the last use between pricing and commit
	store.beforeTx = func() {
		require.NoError(t, store.Repos().PromoCodes.IncrementUsage(ctx, "PROMO_LAST"))
	}
	form := dewiForm("L1")
	form.Booking.PromoCode = "LASTONE"
	_, err := svc.ConvertLead(ctx, form)
	require.ErrorIs(t, err, ErrPromoExhausted)

	clients, projects, txns := countAll(t, store)
	assert.Zero(t, clients)
	assert.Zero(t, projects)
	assert.Zero(t, txns)
	card, err := store.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	assert.Zero(t, card.Balance)
	lead, err := store.Repos().Leads.GetByID(ctx, "L1")
	require.NoError(t, err)
	assert.Equal(t, models.LeadDiscussion, lead.Status)
}

func TestConvertLead_LeadChangedConcurrently(t *testing.T) {
	ctx := context.Background()
	store := &hookStore{Store: memory.NewStore()}
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
	svc, _ := newConversionService(store, silentNotifier(store))

	store.beforeTx = func() {
		lead, err := store.Repos().Leads.GetByID(ctx, "L1")
		require.NoError(t, err)
		lead.Status = models.LeadRejected
		require.NoError(t, store.Repos().Leads.Update(ctx, lead, models.LeadDiscussion))
	}
	_, err := svc.ConvertLead(ctx, dewiForm("L1"))
	require.ErrorIs(t, err, ErrLeadChanged)
	clients, _, _ := countAll(t, store)
	assert.Zero(t, clients)
}

func TestConvertLead_LockHeld(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
	svc, locker := newConversionService(store, silentNotifier(store))

	release, err := locker.Acquire(ctx, "lead:L1:convert", 0)
	require.NoError(t, err)
	_, err = svc.ConvertLead(ctx, dewiForm("L1"))
	require.ErrorIs(t, err, ErrConversionInProgress)

	release()
	_, err = svc.ConvertLead(ctx, dewiForm("L1"))
	require.NoError(t, err)
}

func TestConvertLead_NotifierFailureDoesNotFail(t *testing.T) {
	store := memory.NewStore()
	seedCatalog(t, store)
	seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil, errors.New("sink down"))

	svc, _ := newConversionService(store, notifier)
	res, err := svc.ConvertLead(context.Background(), dewiForm("L1"))
	require.NoError(t, err)
	assert.Nil(t, res.Notification)
	assert.Equal(t, models.LeadConverted, res.Lead.Status)
}

func TestSubmitPublicBooking(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)

	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n models.Notification) (*models.Notification, error) {
			assert.Equal(t, "New booking", n.Title)
			assert.Equal(t, models.IconBooking, n.Icon)
			assert.Equal(t, "bookings", n.Link.View)
			return &n, nil
		})
	svc, _ := newConversionService(store, notifier)

	form := dewiForm("").Booking
	form.DepositProof = "data:image/png;base64,AAAA"
	form.PaymentReference = " TRX-889 "
	res, err := svc.SubmitPublicBooking(ctx, form)
	require.NoError(t, err)

	assert.Equal(t, models.BookingNew, res.Project.BookingStatus)
	assert.Equal(t, models.PaymentDeposit, res.Project.PaymentStatus)
	assert.Equal(t, "TRX-889", res.Project.PaymentReference)
	assert.Equal(t, "data:image/png;base64,AAAA", res.Project.DepositProof)
	assert.Equal(t, models.LeadConverted, res.Lead.Status)
	assert.Equal(t, models.ChannelWebsite, res.Lead.ContactChannel)

	leads, err := store.Repos().Leads.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Converted to client "+res.Client.ID, leads[0].Notes)
}

func TestSubmitPublicBooking_DuplicateClientsAllowed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	svc, _ := newConversionService(store, silentNotifier(store))

	form := dewiForm("").Booking
	first, err := svc.SubmitPublicBooking(ctx, form)
	require.NoError(t, err)
	second, err := svc.SubmitPublicBooking(ctx, form)
	require.NoError(t, err)
	assert.NotEqual(t, first.Client.ID, second.Client.ID)
	assert.NotEqual(t, first.Client.PortalAccessID, second.Client.PortalAccessID)

	card, err := store.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	assert.Equal(t, 4_000_000.0, card.Balance)
}
