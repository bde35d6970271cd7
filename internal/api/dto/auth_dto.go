package dto

import (
	"time"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the resolved identity.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      IdentityResponse `json:"user"`
}

// IdentityResponse describes the authenticated operator.
type IdentityResponse struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
}

// FromIdentity maps the domain identity.
func FromIdentity(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:       identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
		Name:     identity.Name,
	}
}
