package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sales-dashboard/internal/cache"
	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/observability"
	"github.com/spec-kit/sales-dashboard/internal/repository"
)

const portfolioCacheKey = "portfolio:rows:v1"

// PortfolioService loads the portfolio table and applies the filter
// pipeline for the authenticated user. The raw snapshot is cached under a
// shorter window than the directory; expiry always triggers a full refetch,
// never a partial one.
type PortfolioService struct {
	portfolio  repository.PortfolioRepository
	cache      cache.Cache
	ttl        time.Duration
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// NewPortfolioService builds the service.
func NewPortfolioService(portfolio repository.PortfolioRepository, c cache.Cache, ttl time.Duration, dispatcher events.Dispatcher, metrics *observability.Metrics) *PortfolioService {
	return &PortfolioService{
		portfolio:  portfolio,
		cache:      c,
		ttl:        ttl,
		dispatcher: dispatcher,
		metrics:    metrics,
	}
}

// Load returns the rows visible to the user. Any fetch failure yields an
// empty set plus the error; a stale-but-silent result is never returned.
func (s *PortfolioService) Load(ctx context.Context, user *domain.UserRecord) ([]domain.PortfolioRecord, error) {
	raw, err := s.loadRaw(ctx)
	if err != nil {
		return []domain.PortfolioRecord{}, err
	}
	return FilterPortfolio(raw, user.Sources), nil
}

// RefineOptions are optional in-request refinements applied on top of the
// visible set.
type RefineOptions struct {
	Channel   string
	Potential string
	Query     string
}

// Refine narrows an already-filtered portfolio. The unconditional pipeline
// has run by this point, so refinements can only hide rows, never reveal.
func Refine(records []domain.PortfolioRecord, opts RefineOptions) []domain.PortfolioRecord {
	query := strings.ToLower(strings.TrimSpace(opts.Query))
	potential := strings.ToUpper(strings.TrimSpace(opts.Potential))

	out := make([]domain.PortfolioRecord, 0, len(records))
	for _, record := range records {
		if opts.Channel != "" && record.SourceChannel() != opts.Channel {
			continue
		}
		if potential != "" && domain.PotentialBucket(record[domain.ColPotential]) != potential {
			continue
		}
		if query != "" && !matchesQuery(record, query) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// FilterPortfolio runs the pipeline in its required order: normalize cells,
// drop empty names, drop excluded senders, then restrict to the user's
// source scope. The sender exclusion is unconditional and happens before the
// per-user restriction, so excluded senders stay hidden from every role.
func FilterPortfolio(raw []domain.PortfolioRecord, scope domain.SourceScope) []domain.PortfolioRecord {
	out := make([]domain.PortfolioRecord, 0, len(raw))
	for _, record := range raw {
		normalized := record.Normalize()
		if normalized.Name() == "" {
			continue
		}
		if normalized.ExcludedSender() {
			continue
		}
		if !scope.Allows(normalized.SourceChannel()) {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

// Invalidate drops the cached snapshot so the next load refetches.
func (s *PortfolioService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, portfolioCacheKey)
}

func (s *PortfolioService) loadRaw(ctx context.Context) ([]domain.PortfolioRecord, error) {
	if snapshot, ok, err := s.cache.Get(ctx, portfolioCacheKey); err == nil && ok {
		var raw []domain.PortfolioRecord
		if err := json.Unmarshal(snapshot, &raw); err == nil {
			s.metrics.RecordCacheHit("portfolio")
			return raw, nil
		}
	}

	s.metrics.RecordCacheMiss("portfolio")
	raw, err := s.portfolio.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if snapshot, err := json.Marshal(raw); err == nil {
		_ = s.cache.Set(ctx, portfolioCacheKey, snapshot, s.ttl)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPortfolioRefreshed,
		Timestamp: time.Now(),
		Payload:   events.PortfolioRefreshedPayload{RawRows: len(raw)},
	})
	return raw, nil
}

func matchesQuery(record domain.PortfolioRecord, query string) bool {
	for _, col := range []string{domain.ColName, domain.ColTel, domain.ColBusiness} {
		if strings.Contains(strings.ToLower(record[col]), query) {
			return true
		}
	}
	return false
}
