package dto

import (
	"time"

	"github.com/spec-kit/sales-dashboard/internal/domain"
)

// LoginRequest payload. The staff ID is the whole credential.
type LoginRequest struct {
	StaffID string `json:"staff_id"`
}

// RegisterRequest payload for new staff accounts.
type RegisterRequest struct {
	StaffID        string `json:"staff_id"`
	Username       string `json:"username"`
	Branch         string `json:"branch"`
	Role           string `json:"role"`
	AllowedSources string `json:"allowed_sources"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the outward shape of a directory record.
type UserResponse struct {
	StaffID        string `json:"staff_id"`
	Username       string `json:"username"`
	Branch         string `json:"branch"`
	Role           string `json:"role"`
	AllowedSources string `json:"allowed_sources"`
	IsActive       bool   `json:"is_active"`
}

// NewUserResponse maps a domain record.
func NewUserResponse(user *domain.UserRecord) UserResponse {
	return UserResponse{
		StaffID:        user.StaffID,
		Username:       user.Username,
		Branch:         user.Branch,
		Role:           string(user.Role),
		AllowedSources: user.Sources.String(),
		IsActive:       user.Active,
	}
}
