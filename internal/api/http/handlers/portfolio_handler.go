package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/service"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

// PortfolioHandler serves the filtered customer portfolio.
type PortfolioHandler struct {
	portfolio *service.PortfolioService
}

// NewPortfolioHandler constructs handler.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolioService}
}

// List handles GET /portfolio. Optional query refinements: channel,
// potential (H/M/L), q (substring over name/tel/business).
func (h *PortfolioHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("staff login required")
	}

	records, err := h.portfolio.Load(c.Context(), principal.User)
	if err != nil {
		return err
	}

	records = service.Refine(records, service.RefineOptions{
		Channel:   c.Query("channel"),
		Potential: c.Query("potential"),
		Query:     c.Query("q"),
	})

	return c.JSON(fiber.Map{
		"data": records,
		"meta": fiber.Map{"count": len(records)},
	})
}
