package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/models"
	"vena/internal/repositories/memory"
)

type sentEmail struct {
	to, name, portalURL string
	projectID           string
}

type recordingEmail struct {
	sent []sentEmail
	err  error
}

func (r *recordingEmail) SendBookingConfirmation(email, clientName string, p *models.Project, portalURL string) error {
	r.sent = append(r.sent, sentEmail{to: email, name: clientName, portalURL: portalURL, projectID: p.ID})
	return r.err
}

type projectFixture struct {
	store    *memory.Store
	projects *ProjectService
	email    *recordingEmail
	booking  *ConversionResult
}

func newProjectFixture(t *testing.T, public bool) *projectFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	seedCatalog(t, store)
	conv, _ := newConversionService(store, silentNotifier(store))

	var res *ConversionResult
	var err error
	if public {
		res, err = conv.SubmitPublicBooking(ctx, dewiForm("").Booking)
	} else {
		seedLead(t, store, "L1", "Dewi", models.LeadDiscussion)
		res, err = conv.ConvertLead(ctx, dewiForm("L1"))
	}
	require.NoError(t, err)

	email := &recordingEmail{}
	ps := NewProjectService(store, silentNotifier(store), email, "https://vena.example/", "Pelunasan")
	ps.Now = fixedClock
	return &projectFixture{store: store, projects: ps, email: email, booking: res}
}

func TestUpdateBookingStatus_ConfirmSendsEmail(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, true)

	p, err := f.projects.UpdateBookingStatus(ctx, f.booking.Project.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, p.BookingStatus)

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "dewi@example.com", f.email.sent[0].to)
	assert.Equal(t, "https://vena.example/portal/"+f.booking.Client.PortalAccessID, f.email.sent[0].portalURL)

	confirmed, err := f.projects.ListConfirmedBookings(ctx)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, p.ID, confirmed[0].ID)

	_, err = f.projects.UpdateBookingStatus(ctx, p.ID, models.BookingRejected)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateBookingStatus_EmailFailureIsLogged(t *testing.T) {
	f := newProjectFixture(t, true)
	f.email.err = errors.New("smtp down")
	p, err := f.projects.UpdateBookingStatus(context.Background(), f.booking.Project.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, p.BookingStatus)
}

func TestUpdateBookingStatus_NotABooking(t *testing.T) {
	f := newProjectFixture(t, false)
	_, err := f.projects.UpdateBookingStatus(context.Background(), f.booking.Project.ID, models.BookingConfirmed)
	require.ErrorIs(t, err, ErrNotABooking)

	_, err = f.projects.UpdateBookingStatus(context.Background(), "missing", models.BookingConfirmed)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestRecordPayment_SettlesProject(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	id := f.booking.Project.ID

	res, err := f.projects.RecordPayment(ctx, id, PaymentInput{Amount: 1_000_000, CardID: "CARD001", Reference: "INV-2"})
	require.NoError(t, err)
	assert.Equal(t, 3_000_000.0, res.Project.AmountPaid)
	assert.Equal(t, models.PaymentDeposit, res.Project.PaymentStatus)
	assert.Equal(t, "Pelunasan", res.Transaction.Category)
	assert.Equal(t, "Transfer", res.Transaction.Method)
	assert.Equal(t, 3_000_000.0, res.Card.Balance)

	res, err = f.projects.RecordPayment(ctx, id, PaymentInput{Amount: 2_000_000, CardID: "CARD001", Method: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, res.Project.PaymentStatus)
	assert.Zero(t, res.Project.Remaining())

	txns, err := f.projects.Transactions(ctx, id)
	require.NoError(t, err)
	assert.Len(t, txns, 3)

	card, err := f.store.Repos().Cards.GetByID(ctx, "CARD001")
	require.NoError(t, err)
	assert.Equal(t, 5_000_000.0, card.Balance)

	notes, err := f.store.Repos().Notifications.List(ctx, 10)
	require.NoError(t, err)
	var payments int
	for _, n := range notes {
		if n.Icon == models.IconPayment {
			payments++
		}
	}
	assert.Equal(t, 2, payments)
}

func TestRecordPayment_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	id := f.booking.Project.ID

	_, err := f.projects.RecordPayment(ctx, id, PaymentInput{Amount: 0, CardID: "CARD001"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = f.projects.RecordPayment(ctx, id, PaymentInput{Amount: 3_000_001, CardID: "CARD001"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = f.projects.RecordPayment(ctx, id, PaymentInput{Amount: 100, CardID: "CARD404"})
	require.ErrorIs(t, err, ErrCardNotFound)

	_, err = f.projects.RecordPayment(ctx, "missing", PaymentInput{Amount: 100, CardID: "CARD001"})
	require.ErrorIs(t, err, ErrProjectNotFound)

	p, err := f.projects.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2_000_000.0, p.AmountPaid)
	txns, err := f.projects.Transactions(ctx, id)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestUpdateProgress(t *testing.T) {
	ctx := context.Background()
	f := newProjectFixture(t, false)
	id := f.booking.Project.ID

	_, err := f.projects.UpdateProgress(ctx, id, 101)
	require.ErrorIs(t, err, models.ErrValidation)

	p, err := f.projects.UpdateProgress(ctx, id, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, p.Progress)

	_, err = f.projects.UpdateProgress(ctx, id, 100)
	require.NoError(t, err)

	notes, err := f.store.Repos().Notifications.List(ctx, 0)
	require.NoError(t, err)
	var completed int
	for _, n := range notes {
		if n.Icon == models.IconCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}
