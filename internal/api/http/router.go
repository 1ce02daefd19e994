package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sales-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/sales-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Portfolio      *handlers.PortfolioHandler
	Plan           *handlers.PlanHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything past login sits behind the
// session gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/portfolio", cfg.Portfolio.List)
	protected.Get("/plan/template", cfg.Plan.Template)
	protected.Post("/plan", cfg.Plan.Submit)
	protected.Get("/analytics/summary", cfg.Analytics.Summary)
}
