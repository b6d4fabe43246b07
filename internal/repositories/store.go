package repositories

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a conditional update lost against the current row state.
	ErrConflict = errors.New("conflicting update")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles the repositories that share one connection or one unit of work.
type Repos struct {
	Leads         LeadRepository
	Clients       ClientRepository
	Projects      ProjectRepository
	Transactions  TransactionRepository
	Cards         CardRepository
	Packages      PackageRepository
	AddOns        AddOnRepository
	PromoCodes    PromoCodeRepository
	Notifications NotificationRepository
	Users         UserRepository
}

// Store hands out repositories. Writes spanning several collections go through WithinTx:
// either every write inside fn becomes visible or none does.
type Store interface {
	Repos() Repos
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

//go:embed schema.sql
var schema string

type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Repos() Repos {
	return reposFor(s.db)
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(reposFor(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("[store][tx] rollback failed: err=%v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Migrate creates the tables if they do not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func reposFor(db DBTX) Repos {
	return Repos{
		Leads:         NewLeadRepository(db),
		Clients:       NewClientRepository(db),
		Projects:      NewProjectRepository(db),
		Transactions:  NewTransactionRepository(db),
		Cards:         NewCardRepository(db),
		Packages:      NewPackageRepository(db),
		AddOns:        NewAddOnRepository(db),
		PromoCodes:    NewPromoCodeRepository(db),
		Notifications: NewNotificationRepository(db),
		Users:         NewUserRepository(db),
	}
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
