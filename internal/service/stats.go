package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/report"
	"github.com/pkordes/product-registry/internal/stats"
)

// StatsService derives statistics from the full registration history.
type StatsService struct {
	store  RegistrationStore
	format domain.DisplayFormat
	now    func() time.Time
}

// NewStatsService constructs a StatsService.
func NewStatsService(store RegistrationStore, format domain.DisplayFormat) *StatsService {
	return &StatsService{store: store, format: format, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Summary computes the statistics for whatever the store currently holds.
func (s *StatsService) Summary(ctx context.Context) (stats.Summary, error) {
	res, err := s.store.ListRegistrations(ctx)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("service.StatsService.Summary: %w", err)
	}
	return stats.Compute(res.Data, s.now(), s.format), nil
}

// ReportPDF renders Summary as a PDF document.
func (s *StatsService) ReportPDF(ctx context.Context) ([]byte, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.ReportPDF: %w", err)
	}
	now := s.now()
	out, err := report.StatsPDF(sum, s.format.Date(now)+" "+s.format.Time(now))
	if err != nil {
		return nil, fmt.Errorf("service.StatsService.ReportPDF: %w", err)
	}
	return out, nil
}
