package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/config"
	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/events"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

// AuthService gates every authenticated feature behind a staff ID check
// against the directory. There is no password: possession of an active
// staff ID is the whole credential, by explicit product decision.
type AuthService struct {
	directory  *DirectoryService
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, directory *DirectoryService, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		directory:  directory,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		dispatcher: dispatcher,
	}
}

// Authenticate resolves a staff ID to its record. It returns (nil, nil) for
// both an unknown ID and an inactive one: callers must not be able to tell
// which IDs exist.
func (s *AuthService) Authenticate(ctx context.Context, staffID string) (*domain.UserRecord, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return nil, apperrors.NewValidationError("staff_id is required", nil)
	}

	user, err := s.directory.Lookup(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and issues a session token.
func (s *AuthService) Login(ctx context.Context, staffID string) (*domain.UserRecord, string, time.Time, error) {
	user, err := s.Authenticate(ctx, staffID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		// One message for both cases, on purpose.
		return nil, "", time.Time{}, apperrors.NewUnauthorized("staff ID not found or inactive account")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.StaffID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventStaffLoggedIn,
		StaffID:   user.StaffID,
		Timestamp: time.Now(),
	})
	return user, token, exp, nil
}

// Logout currently no-ops for the stateless token approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
