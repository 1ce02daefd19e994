package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/repository"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

// PlanService flattens daily plans into append-only rows. One submission is
// one batch write; there is no retry and no rollback beyond what the store
// itself provides.
type PlanService struct {
	plans      repository.PlanRepository
	dispatcher events.Dispatcher
	location   *time.Location
	now        func() time.Time
}

// NewPlanService builds the service. The location fixes the time zone of
// submission timestamps regardless of where the service runs.
func NewPlanService(plans repository.PlanRepository, dispatcher events.Dispatcher, location *time.Location) *PlanService {
	if location == nil {
		location = time.UTC
	}
	return &PlanService{
		plans:      plans,
		dispatcher: dispatcher,
		location:   location,
		now:        time.Now,
	}
}

// Template returns the three default time blocks a new plan starts with.
func (s *PlanService) Template() []domain.PlanTask {
	return domain.DefaultPlanTasks()
}

// NextTask derives the block an "add task" action appends.
func (s *PlanService) NextTask(tasks []domain.PlanTask) domain.PlanTask {
	return domain.NextPlanTask(tasks)
}

// Submit persists the plan: one row per customer in a task, or one summary
// row with empty customer fields when a task has none. Every row of the
// submission shares the same timestamp. Returns the number of rows written.
func (s *PlanService) Submit(ctx context.Context, tasks []domain.PlanTask, staffID string, planDate time.Time) (int, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return 0, apperrors.NewValidationError("staff_id is required", nil)
	}
	if len(tasks) == 0 {
		return 0, apperrors.NewValidationError("plan has no tasks", nil)
	}
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			return 0, apperrors.NewValidationError(err.Error(), map[string]any{"task": i})
		}
	}

	date := planDate.Format(domain.PlanDateLayout)
	submittedAt := s.now().In(s.location).Format(domain.SubmittedAtLayout)

	var rows []repository.PlanRow
	for _, task := range tasks {
		base := repository.PlanRow{
			Start:        task.StartTime,
			End:          task.EndTime,
			Date:         date,
			Activity:     task.Activity,
			Location:     task.Location,
			NumCustomers: task.NumCustomers,
			StaffID:      staffID,
			SubmittedAt:  submittedAt,
		}
		if len(task.Customers) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, customer := range task.Customers {
			row := base
			row.CustomerName = customer.Name
			row.CustomerContact = customer.Contact
			row.CustomerBusiness = customer.Biz
			rows = append(rows, row)
		}
	}

	if err := s.plans.AppendBatch(ctx, rows); err != nil {
		return 0, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPlanSubmitted,
		StaffID:   staffID,
		Timestamp: s.now(),
		Payload: events.PlanSubmittedPayload{
			PlanDate: date,
			Tasks:    len(tasks),
			Rows:     len(rows),
		},
	})
	return len(rows), nil
}

// SetClock overrides the time source. Test hook.
func (s *PlanService) SetClock(now func() time.Time) {
	s.now = now
}
