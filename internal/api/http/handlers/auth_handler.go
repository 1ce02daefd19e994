package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sales-dashboard/internal/api/dto"
	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/service"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

// AuthHandler exposes login, registration and logout.
type AuthHandler struct {
	auth      *service.AuthService
	directory *service.DirectoryService
	portfolio *service.PortfolioService
	logger    *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, directory *service.DirectoryService, portfolio *service.PortfolioService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, directory: directory, portfolio: portfolio, logger: logger}
}

// Login handles POST /auth/login. Login and the first portfolio fetch are
// one user-visible action: a portfolio failure degrades to an empty
// snapshot with a warning, never to a failed login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.StaffID)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
	}

	records, err := h.portfolio.Load(c.Context(), user)
	if err != nil {
		h.logger.Warn("initial portfolio load failed",
			zap.String("staff_id", user.StaffID), zap.Error(err))
		data["portfolio"] = []domain.PortfolioRecord{}
		data["warning"] = "customer data unavailable: " + apperrors.ToDomainError(err).Message
	} else {
		data["portfolio"] = records
	}

	return c.JSON(fiber.Map{"data": data})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.directory.Register(c.Context(), service.RegistrationInput{
		StaffID:  req.StaffID,
		Username: req.Username,
		Branch:   req.Branch,
		Role:     domain.Role(req.Role),
		Sources:  domain.ParseSourceScope(req.AllowedSources),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context(), ""); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}
