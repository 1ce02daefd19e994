package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/service"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

// AnalyticsHandler serves aggregate views over the visible portfolio.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analyticsService}
}

// Summary handles GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("staff login required")
	}

	summary, err := h.analytics.Summary(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
