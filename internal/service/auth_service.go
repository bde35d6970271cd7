package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

// AuthService handles operator login and logout over the fixed credential
// table and the session store.
type AuthService struct {
	identities auth.IdentityStore
	sessions   auth.SessionStore
	tokens     *auth.TokenManager
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Identities auth.IdentityStore
	Sessions   auth.SessionStore
	Tokens     *auth.TokenManager
}

// LoginResult carries the issued token and the identity it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.Identities,
		sessions:   deps.Sessions,
		tokens:     deps.Tokens,
	}
}

// Login resolves credentials, creates a session record, and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	identity, err := s.identities.Resolve(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, apperrors.MapError(err)
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.GenerateToken(sessionID, identity)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	session := &domain.Session{
		ID:        sessionID,
		Identity:  *identity,
		IssuedAt:  time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, apperrors.MapError(err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Identity: *identity}, nil
}

// Logout deletes the session record, revoking its token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
