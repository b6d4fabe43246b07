// Package memory keeps every collection in process memory. WithinTx works on a
// staged copy of the collections and swaps it in only when fn succeeds.
package memory

import (
	"context"
	"maps"
	"sync"

	"vena/internal/models"
	"vena/internal/repositories"
)

type dataset struct {
	leads         map[string]models.Lead
	clients       map[string]models.Client
	projects      map[string]models.Project
	transactions  map[string]models.Transaction
	cards         map[string]models.Card
	packages      map[string]models.Package
	addOns        map[string]models.AddOn
	promos        map[string]models.PromoCode
	notifications map[string]models.Notification
	users         map[string]models.User
}

func newDataset() *dataset {
	return &dataset{
		leads:         map[string]models.Lead{},
		clients:       map[string]models.Client{},
		projects:      map[string]models.Project{},
		transactions:  map[string]models.Transaction{},
		cards:         map[string]models.Card{},
		packages:      map[string]models.Package{},
		addOns:        map[string]models.AddOn{},
		promos:        map[string]models.PromoCode{},
		notifications: map[string]models.Notification{},
		users:         map[string]models.User{},
	}
}

// clone is shallow per collection. Stored values never share slices with callers
// (every write and read copies them), so that is enough for isolation.
func (d *dataset) clone() *dataset {
	return &dataset{
		leads:         maps.Clone(d.leads),
		clients:       maps.Clone(d.clients),
		projects:      maps.Clone(d.projects),
		transactions:  maps.Clone(d.transactions),
		cards:         maps.Clone(d.cards),
		packages:      maps.Clone(d.packages),
		addOns:        maps.Clone(d.addOns),
		promos:        maps.Clone(d.promos),
		notifications: maps.Clone(d.notifications),
		users:         maps.Clone(d.users),
	}
}

// access returns the dataset to operate on and a release func.
type access func() (*dataset, func())

type Store struct {
	mu   sync.Mutex
	data *dataset
}

var _ repositories.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Repos() repositories.Repos {
	return reposFor(func() (*dataset, func()) {
		s.mu.Lock()
		return s.data, s.mu.Unlock
	})
}

// WithinTx holds the store lock for the whole of fn, so units of work are serialized.
// Repositories obtained from Repos must not be used inside fn.
func (s *Store) WithinTx(ctx context.Context, fn func(r repositories.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	staged := s.data.clone()
	if err := fn(reposFor(func() (*dataset, func()) { return staged, func() {} })); err != nil {
		return err
	}
	s.data = staged
	return nil
}

func reposFor(acquire access) repositories.Repos {
	return repositories.Repos{
		Leads:         &leadRepo{acquire},
		Clients:       &clientRepo{acquire},
		Projects:      &projectRepo{acquire},
		Transactions:  &transactionRepo{acquire},
		Cards:         &cardRepo{acquire},
		Packages:      &packageRepo{acquire},
		AddOns:        &addOnRepo{acquire},
		PromoCodes:    &promoRepo{acquire},
		Notifications: &notificationRepo{acquire},
		Users:         &userRepo{acquire},
	}
}
