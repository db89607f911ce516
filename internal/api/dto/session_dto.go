package dto

import (
	"time"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// LoginRequest selects the identity to sign in as.
type LoginRequest struct {
	IdentityID string `json:"identity_id" validate:"required"`
}

// ImpersonateRequest names the identity to act as.
type ImpersonateRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// AuthResponse standard response for login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the session state.
type SessionResponse struct {
	ID              string          `json:"id"`
	CurrentUser     domain.Identity `json:"current_user"`
	ActingUser      domain.Identity `json:"acting_user"`
	IsImpersonating bool            `json:"is_impersonating"`
}

// NewSessionResponse converts a session.
func NewSessionResponse(sess domain.Session) SessionResponse {
	return SessionResponse{
		ID:              sess.ID,
		CurrentUser:     sess.CurrentUser,
		ActingUser:      sess.ActingUser,
		IsImpersonating: sess.IsImpersonating,
	}
}
