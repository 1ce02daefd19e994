package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements RowStore over a single sheet_rows table, for
// deployments without the shared spreadsheet. Each row stores its cells as a
// jsonb array in insertion order; row one of a table is its header.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// FetchAll reads every row of the table in insertion order and keys data
// rows by the header row.
func (s *PostgresStore) FetchAll(ctx context.Context, table string) ([]Row, error) {
	const query = `
        SELECT cells FROM sheet_rows
        WHERE tbl = $1
        ORDER BY id`

	rows, err := s.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var raw [][]string
	for rows.Next() {
		var cells []byte
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		var values []string
		if err := json.Unmarshal(cells, &values); err != nil {
			return nil, fmt.Errorf("%w: corrupt row: %v", ErrStoreUnavailable, err)
		}
		raw = append(raw, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	if len(raw) < 2 {
		return []Row{}, nil
	}

	header := raw[0]
	out := make([]Row, 0, len(raw)-1)
	for _, values := range raw[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Append adds a single row.
func (s *PostgresStore) Append(ctx context.Context, table string, values []string) error {
	return s.AppendBatch(ctx, table, [][]string{values})
}

// AppendBatch inserts all rows inside one transaction via a pgx batch.
func (s *PostgresStore) AppendBatch(ctx context.Context, table string, rows [][]string) error {
	const query = `INSERT INTO sheet_rows (tbl, cells) VALUES ($1, $2)`

	batch := &pgx.Batch{}
	for _, values := range rows {
		cells, err := json.Marshal(values)
		if err != nil {
			return err
		}
		batch.Queue(query, table, cells)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	return nil
}
