package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/repository"
	"github.com/spec-kit/sales-dashboard/internal/store"
)

var planHeader = []string{
	"start", "end", "date", "activity", "location", "num_customers",
	"customer_name", "customer_contact", "customer_business", "staff_id", "submitted_at",
}

func newTestPlan(t *testing.T) (*PlanService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	mem.Seed("plan", planHeader)
	repo := repository.NewPlanRepository(mem, "plan")
	svc := NewPlanService(repo, events.NewInMemoryDispatcher(nil), time.UTC)
	svc.SetClock(func() time.Time {
		return time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	})
	return svc, mem
}

func TestSubmit_OneRowPerCustomer(t *testing.T) {
	svc, mem := newTestPlan(t)

	tasks := []domain.PlanTask{{
		StartTime:    "08:00",
		EndTime:      "12:00",
		Activity:     "Field visit",
		Location:     "Market",
		NumCustomers: "2",
		Customers: []domain.PlanCustomer{
			{Name: "A", Contact: "012", Biz: "Grocery"},
			{Name: "B", Contact: "098", Biz: "Cafe"},
		},
	}}

	written, err := svc.Submit(context.Background(), tasks, "1001", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	rows, err := mem.FetchAll(context.Background(), "plan")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Shared fields are identical across rows of one submission.
	for _, row := range rows {
		assert.Equal(t, "08:00", row["start"])
		assert.Equal(t, "12:00", row["end"])
		assert.Equal(t, "02/06/2025", row["date"])
		assert.Equal(t, "Field visit", row["activity"])
		assert.Equal(t, "Market", row["location"])
		assert.Equal(t, "2", row["num_customers"])
		assert.Equal(t, "1001", row["staff_id"])
		assert.Equal(t, "2025-06-02 09:30:00", row["submitted_at"])
	}

	assert.Equal(t, "A", rows[0]["customer_name"])
	assert.Equal(t, "012", rows[0]["customer_contact"])
	assert.Equal(t, "Grocery", rows[0]["customer_business"])
	assert.Equal(t, "B", rows[1]["customer_name"])
	assert.Equal(t, "098", rows[1]["customer_contact"])
	assert.Equal(t, "Cafe", rows[1]["customer_business"])
}

func TestSubmit_TaskWithoutCustomersWritesSummaryRow(t *testing.T) {
	svc, mem := newTestPlan(t)

	tasks := []domain.PlanTask{{
		StartTime: "12:00",
		EndTime:   "16:30",
		Activity:  "Reporting",
		Location:  "Office",
	}}

	written, err := svc.Submit(context.Background(), tasks, "1001", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	rows, err := mem.FetchAll(context.Background(), "plan")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Reporting", rows[0]["activity"])
	assert.Equal(t, "", rows[0]["customer_name"])
	assert.Equal(t, "", rows[0]["customer_contact"])
	assert.Equal(t, "", rows[0]["customer_business"])
}

func TestSubmit_MixedTasksShareOneTimestamp(t *testing.T) {
	svc, mem := newTestPlan(t)

	tasks := []domain.PlanTask{
		{StartTime: "08:00", EndTime: "12:00", Activity: "Visits", Customers: []domain.PlanCustomer{{Name: "A"}}},
		{StartTime: "12:00", EndTime: "16:30", Activity: "Desk"},
	}

	written, err := svc.Submit(context.Background(), tasks, "1001", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	rows, err := mem.FetchAll(context.Background(), "plan")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rows[0]["submitted_at"], rows[1]["submitted_at"])
}

func TestSubmit_Validation(t *testing.T) {
	svc, mem := newTestPlan(t)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.Submit(context.Background(), nil, "1001", date)
	assert.Error(t, err, "empty plan is rejected")

	_, err = svc.Submit(context.Background(), domain.DefaultPlanTasks(), "  ", date)
	assert.Error(t, err, "blank staff id is rejected")

	bad := []domain.PlanTask{{StartTime: "10:00", EndTime: "09:00"}}
	_, err = svc.Submit(context.Background(), bad, "1001", date)
	assert.Error(t, err, "inverted time block is rejected")

	assert.Equal(t, 0, mem.RowCount("plan"), "nothing written on validation failure")
}

func TestSubmit_StoreFailurePropagates(t *testing.T) {
	svc, mem := newTestPlan(t)
	mem.FailWith = store.ErrStoreUnavailable

	_, err := svc.Submit(context.Background(), domain.DefaultPlanTasks(), "1001", time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestSubmit_TimestampUsesConfiguredLocation(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed("plan", planHeader)
	location := time.FixedZone("ICT", 7*60*60)
	svc := NewPlanService(repository.NewPlanRepository(mem, "plan"), events.NewInMemoryDispatcher(nil), location)
	svc.SetClock(func() time.Time {
		return time.Date(2025, 6, 2, 2, 0, 0, 0, time.UTC)
	})

	_, err := svc.Submit(context.Background(), domain.DefaultPlanTasks()[:1], "1001", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rows, err := mem.FetchAll(context.Background(), "plan")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-06-02 09:00:00", rows[0]["submitted_at"])
}
