package services

import (
	"context"
	"fmt"
	"time"

	"vena/internal/reports"
	"vena/internal/repositories"
)

type ReportService struct {
	Store repositories.Store
	Now   func() time.Time
}

func NewReportService(store repositories.Store) *ReportService {
	return &ReportService{Store: store, Now: time.Now}
}

// Dashboard loads the current collections and computes the statistics for
// year. A zero year means the current one.
func (s *ReportService) Dashboard(ctx context.Context, year int) (*reports.Dashboard, error) {
	if year == 0 {
		year = s.Now().Year()
	}
	r := s.Store.Repos()
	leads, err := r.Leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	clients, err := r.Clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	projects, err := r.Projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	txns, err := r.Transactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	d := reports.Build(year, leads, clients, projects, txns)
	return &d, nil
}
