package service

import (
	"context"

	"github.com/spec-kit/sales-dashboard/internal/domain"
)

// PortfolioSummary aggregates the caller's visible portfolio.
type PortfolioSummary struct {
	Total       int            `json:"total"`
	ByChannel   map[string]int `json:"by_channel"`
	BySender    map[string]int `json:"by_sender"`
	ByPotential map[string]int `json:"by_potential"`
}

// AnalyticsService computes aggregate views over the filtered portfolio.
// Charts and maps are a presentation concern and live elsewhere.
type AnalyticsService struct {
	portfolio *PortfolioService
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(portfolio *PortfolioService) *AnalyticsService {
	return &AnalyticsService{portfolio: portfolio}
}

// Summary aggregates over exactly the rows the user is allowed to see, so
// the analytics view can never leak records the portfolio view hides.
func (s *AnalyticsService) Summary(ctx context.Context, user *domain.UserRecord) (*PortfolioSummary, error) {
	records, err := s.portfolio.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

// Summarize computes the aggregates for an already-filtered set.
func Summarize(records []domain.PortfolioRecord) *PortfolioSummary {
	summary := &PortfolioSummary{
		Total:       len(records),
		ByChannel:   make(map[string]int),
		BySender:    make(map[string]int),
		ByPotential: make(map[string]int),
	}
	for _, record := range records {
		if channel := record.SourceChannel(); channel != "" {
			summary.ByChannel[channel]++
		}
		if sender := record.Sender(); sender != "" {
			summary.BySender[sender]++
		}
		summary.ByPotential[domain.PotentialBucket(record[domain.ColPotential])]++
	}
	return summary
}
