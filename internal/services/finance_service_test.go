package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vena/internal/models"
	"vena/internal/repositories/memory"
)

func newFinanceService(t *testing.T) (*FinanceService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seedCatalog(t, store)
	s := NewFinanceService(store, []string{"Sewa Alat", "Lainnya"}, []string{"Transport", "Cetak"})
	s.Now = fixedClock
	return s, store
}

func TestFinanceService_CardBalanceFollowsTransactions(t *testing.T) {
	ctx := context.Background()
	s, _ := newFinanceService(t)

	_, err := s.CreateTransaction(ctx, TransactionInput{Description: "Sewa lighting", Amount: 750_000, Type: models.TransactionIncome, Category: "Sewa Alat", CardID: "CARD001"})
	require.NoError(t, err)
	txn, err := s.CreateTransaction(ctx, TransactionInput{Description: "Bensin", Amount: 200_000, Type: models.TransactionExpense, Category: "Transport", CardID: "CARD001"})
	require.NoError(t, err)
	assert.Equal(t, testNow, txn.Date)

	cards, err := s.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 550_000.0, cards[0].Balance)

	got, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bensin", got.Description)
	_, err = s.GetTransaction(ctx, "missing")
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestFinanceService_Rejections(t *testing.T) {
	ctx := context.Background()
	s, store := newFinanceService(t)

	cases := []struct {
		name string
		in   TransactionInput
		want error
	}{
		{"zero amount", TransactionInput{Description: "x", Type: models.TransactionExpense, Category: "Transport"}, models.ErrValidation},
		{"bad type", TransactionInput{Description: "x", Amount: 1, Type: "Gift", Category: "Transport"}, models.ErrValidation},
		{"unknown category", TransactionInput{Description: "x", Amount: 1, Type: models.TransactionExpense, Category: "Party"}, models.ErrValidation},
		{"income on a project", TransactionInput{Description: "x", Amount: 1, Type: models.TransactionIncome, Category: "Lainnya", ProjectID: "p1"}, models.ErrValidation},
		{"unknown card", TransactionInput{Description: "x", Amount: 1, Type: models.TransactionExpense, Category: "Cetak", CardID: "CARD404"}, ErrCardNotFound},
		{"unknown project", TransactionInput{Description: "x", Amount: 1, Type: models.TransactionExpense, Category: "Cetak", ProjectID: "p404"}, ErrProjectNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateTransaction(ctx, tc.in)
			require.ErrorIs(t, err, tc.want)
		})
	}
	txns, err := store.Repos().Transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestFinanceService_CreateCard(t *testing.T) {
	ctx := context.Background()
	s, _ := newFinanceService(t)
	card, err := s.CreateCard(ctx, CardInput{BankName: "Mandiri", LastFourDigits: "9876"})
	require.NoError(t, err)
	assert.NotEmpty(t, card.ID)

	_, err = s.CreateCard(ctx, CardInput{BankName: "BRI", LastFourDigits: "12"})
	require.ErrorIs(t, err, models.ErrValidation)
}
