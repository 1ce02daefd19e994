package dto

import "github.com/spec-kit/sales-dashboard/internal/domain"

// SubmitPlanRequest payload. Date uses YYYY-MM-DD.
type SubmitPlanRequest struct {
	Date  string            `json:"date"`
	Tasks []domain.PlanTask `json:"tasks"`
}

// SubmitPlanResponse reports how many rows one submission produced.
type SubmitPlanResponse struct {
	RowsWritten int `json:"rows_written"`
}

// PlanTemplateResponse carries the default blocks and the block an
// "add task" action would append next.
type PlanTemplateResponse struct {
	Tasks []domain.PlanTask `json:"tasks"`
	Next  domain.PlanTask   `json:"next"`
}
