package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sales-dashboard/internal/cache"
	"github.com/spec-kit/sales-dashboard/internal/domain"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/observability"
	"github.com/spec-kit/sales-dashboard/internal/repository"
	apperrors "github.com/spec-kit/sales-dashboard/pkg/util"
)

const directoryCacheKey = "directory:users:v1"

// DirectoryService owns the user directory: the cached bulk load, the
// uncached duplicate check, and registration. The cache and its freshness
// window live here, not in ambient state.
type DirectoryService struct {
	users      repository.UserRepository
	cache      cache.Cache
	ttl        time.Duration
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// NewDirectoryService builds the service.
func NewDirectoryService(users repository.UserRepository, c cache.Cache, ttl time.Duration, dispatcher events.Dispatcher, metrics *observability.Metrics) *DirectoryService {
	return &DirectoryService{
		users:      users,
		cache:      c,
		ttl:        ttl,
		dispatcher: dispatcher,
		metrics:    metrics,
		now:        time.Now,
	}
}

// LoadUsers returns the directory keyed by staff ID, served from the cached
// snapshot when it is inside the freshness window.
func (s *DirectoryService) LoadUsers(ctx context.Context) (map[string]domain.UserRecord, error) {
	if snapshot, ok, err := s.cache.Get(ctx, directoryCacheKey); err == nil && ok {
		var users []domain.UserRecord
		if err := json.Unmarshal(snapshot, &users); err == nil {
			s.metrics.RecordCacheHit("directory")
			return keyByStaffID(users), nil
		}
	}

	s.metrics.RecordCacheMiss("directory")
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if snapshot, err := json.Marshal(users); err == nil {
		// Cache write failures are tolerated: the next call refetches.
		_ = s.cache.Set(ctx, directoryCacheKey, snapshot, s.ttl)
	}
	return keyByStaffID(users), nil
}

// Lookup resolves a trimmed staff ID against the directory.
func (s *DirectoryService) Lookup(ctx context.Context, staffID string) (*domain.UserRecord, error) {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users[strings.TrimSpace(staffID)]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Exists re-reads the Users table directly, never the cache: the duplicate
// check must see rows appended after the snapshot was taken.
func (s *DirectoryService) Exists(ctx context.Context, staffID string) (bool, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return false, err
	}
	target := strings.TrimSpace(staffID)
	for _, user := range users {
		if user.StaffID == target {
			return true, nil
		}
	}
	return false, nil
}

// RegistrationInput carries the registration form fields.
type RegistrationInput struct {
	StaffID  string
	Username string
	Branch   string
	Role     domain.Role
	Sources  domain.SourceScope
}

// Register validates and appends a new user row, then invalidates the
// directory snapshot.
func (s *DirectoryService) Register(ctx context.Context, input RegistrationInput) (*domain.UserRecord, error) {
	staffID := strings.TrimSpace(input.StaffID)
	username := strings.TrimSpace(input.Username)
	branch := strings.TrimSpace(input.Branch)

	if staffID == "" {
		return nil, apperrors.NewValidationError("staff_id is required", nil)
	}
	if username == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}
	if branch == "" {
		return nil, apperrors.NewValidationError("branch is required", nil)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleRM
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	taken, err := s.Exists(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("staff ID already exists", map[string]any{"staff_id": staffID})
	}

	user := domain.UserRecord{
		StaffID:   staffID,
		Username:  username,
		Branch:    branch,
		Role:      role,
		Sources:   input.Sources,
		Active:    true,
		CreatedAt: s.now().Format(domain.SubmittedAtLayout),
	}
	if err := s.users.Append(ctx, user); err != nil {
		return nil, err
	}

	s.Invalidate(ctx)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		StaffID:   staffID,
		Timestamp: s.now(),
		Payload: events.UserRegisteredPayload{
			Username: username,
			Branch:   branch,
			Role:     string(role),
			Sources:  user.Sources.String(),
		},
	})
	return &user, nil
}

// Invalidate drops the cached directory snapshot so the next load refetches.
func (s *DirectoryService) Invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, directoryCacheKey)
}

// SetClock overrides the time source. Test hook.
func (s *DirectoryService) SetClock(now func() time.Time) {
	s.now = now
}

func keyByStaffID(users []domain.UserRecord) map[string]domain.UserRecord {
	out := make(map[string]domain.UserRecord, len(users))
	for _, user := range users {
		out[user.StaffID] = user
	}
	return out
}
