// Package store adapts the remote tabular row store. Tables are accessed by
// exactly two shapes of operation: read all rows, and append rows.
package store

import (
	"context"
	"errors"
)

// Row is one table row keyed by column header.
type Row map[string]string

// ErrTableNotFound reports a missing spreadsheet or worksheet.
var ErrTableNotFound = errors.New("table not found")

// ErrStoreUnavailable reports a connectivity or authorization failure
// against the remote store.
var ErrStoreUnavailable = errors.New("row store unavailable")

// RowStore is the access contract the application relies on. Appends are
// positional; callers own each table's column order.
type RowStore interface {
	// FetchAll returns every data row of the table, keyed by the header row.
	FetchAll(ctx context.Context, table string) ([]Row, error)
	// Append adds one row after the last non-empty row.
	Append(ctx context.Context, table string, values []string) error
	// AppendBatch adds all rows in one write. No partial-write guarantee
	// beyond what the backing store provides.
	AppendBatch(ctx context.Context, table string, rows [][]string) error
}
