package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sales-dashboard/internal/domain"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

const principalKey = "auth_principal"

// UserResolver resolves a staff ID to its directory record. A nil record
// with a nil error means unknown or inactive; the middleware does not
// distinguish the two.
type UserResolver interface {
	Lookup(ctx context.Context, staffID string) (*domain.UserRecord, error)
}

// Principal represents the authenticated staff member.
type Principal struct {
	StaffID string
	User    *domain.UserRecord
}

// AuthMiddleware validates bearer tokens and loads principals. The staff
// record comes from the directory on every request, so deactivation takes
// effect within one cache window even for live tokens.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver UserResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver UserResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.resolver.Lookup(c.Context(), claims.StaffID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if user == nil || !user.Active {
		return apperrors.NewUnauthorized("staff ID not found or inactive account")
	}

	c.Locals(principalKey, &Principal{StaffID: user.StaffID, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated staff member.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
