package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process RowStore. It backs local development when no
// spreadsheet or Postgres DSN is configured, and doubles as the test fake.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string

	// FailWith, when set, makes every operation return that error. Tests use
	// it to simulate store outages.
	FailWith error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][][]string)}
}

// Seed installs a table with its header row and data rows, replacing any
// previous contents.
func (s *MemoryStore) Seed(table string, header []string, rows ...[]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents := make([][]string, 0, len(rows)+1)
	contents = append(contents, header)
	contents = append(contents, rows...)
	s.tables[table] = contents
}

// FetchAll returns the table's data rows keyed by its header row.
func (s *MemoryStore) FetchAll(_ context.Context, table string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	contents, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	if len(contents) < 2 {
		return []Row{}, nil
	}

	header := contents[0]
	out := make([]Row, 0, len(contents)-1)
	for _, values := range contents[1:] {
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

// Append adds one row to the table.
func (s *MemoryStore) Append(ctx context.Context, table string, values []string) error {
	return s.AppendBatch(ctx, table, [][]string{values})
}

// AppendBatch adds all rows to the table.
func (s *MemoryStore) AppendBatch(_ context.Context, table string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	contents, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	for _, values := range rows {
		copied := make([]string, len(values))
		copy(copied, values)
		contents = append(contents, copied)
	}
	s.tables[table] = contents
	return nil
}

// RowCount reports the number of data rows in a table.
func (s *MemoryStore) RowCount(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents, ok := s.tables[table]
	if !ok || len(contents) == 0 {
		return 0
	}
	return len(contents) - 1
}
