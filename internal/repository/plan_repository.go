package repository

import (
	"context"

	"github.com/spec-kit/sales-dashboard/internal/store"
)

// PlanRow is one flattened plan row in the fixed plan table column order:
// start, end, date, activity, location, num_customers, customer_name,
// customer_contact, customer_business, staff_id, submitted_at.
type PlanRow struct {
	Start            string
	End              string
	Date             string
	Activity         string
	Location         string
	NumCustomers     string
	CustomerName     string
	CustomerContact  string
	CustomerBusiness string
	StaffID          string
	SubmittedAt      string
}

// PlanRepository appends flattened daily plan rows.
type PlanRepository interface {
	// AppendBatch writes all rows of one submission as a single batch.
	AppendBatch(ctx context.Context, rows []PlanRow) error
}

type planRepository struct {
	rows  store.RowStore
	table string
}

// NewPlanRepository returns a row-store-backed implementation.
func NewPlanRepository(rows store.RowStore, table string) PlanRepository {
	return &planRepository{rows: rows, table: table}
}

func (r *planRepository) AppendBatch(ctx context.Context, rows []PlanRow) error {
	values := make([][]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, []string{
			row.Start,
			row.End,
			row.Date,
			row.Activity,
			row.Location,
			row.NumCustomers,
			row.CustomerName,
			row.CustomerContact,
			row.CustomerBusiness,
			row.StaffID,
			row.SubmittedAt,
		})
	}
	return r.rows.AppendBatch(ctx, r.table, values)
}
