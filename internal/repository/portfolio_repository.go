package repository

import (
	"context"

	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/store"
)

// PortfolioRepository defines read access to the portfolio table.
type PortfolioRepository interface {
	// FetchAll returns every raw portfolio row, unfiltered and
	// unnormalized. The filter pipeline lives in the service layer.
	FetchAll(ctx context.Context) ([]domain.PortfolioRecord, error)
}

type portfolioRepository struct {
	rows  store.RowStore
	table string
}

// NewPortfolioRepository returns a row-store-backed implementation.
func NewPortfolioRepository(rows store.RowStore, table string) PortfolioRepository {
	return &portfolioRepository{rows: rows, table: table}
}

func (r *portfolioRepository) FetchAll(ctx context.Context) ([]domain.PortfolioRecord, error) {
	rows, err := r.rows.FetchAll(ctx, r.table)
	if err != nil {
		return nil, err
	}

	records := make([]domain.PortfolioRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.PortfolioRecord(row))
	}
	return records, nil
}
