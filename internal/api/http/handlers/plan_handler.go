package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sales-dashboard/internal/api/dto"
	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/service"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

const planDateParam = "2006-01-02"

// PlanHandler exposes daily plan templates and submission.
type PlanHandler struct {
	plans *service.PlanService
}

// NewPlanHandler constructs handler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{plans: planService}
}

// Template handles GET /plan/template.
func (h *PlanHandler) Template(c *fiber.Ctx) error {
	tasks := h.plans.Template()
	return c.JSON(fiber.Map{"data": dto.PlanTemplateResponse{
		Tasks: tasks,
		Next:  h.plans.NextTask(tasks),
	}})
}

// Submit handles POST /plan.
func (h *PlanHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("staff login required")
	}

	var req dto.SubmitPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	planDate := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse(planDateParam, req.Date)
		if err != nil {
			return apperrors.NewValidationError("date must be YYYY-MM-DD", nil)
		}
		planDate = parsed
	}

	rows, err := h.plans.Submit(c.Context(), req.Tasks, principal.StaffID, planDate)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SubmitPlanResponse{RowsWritten: rows},
	})
}
