package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/it-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SessionID string
	Identity  *domain.Identity
}

// Middleware validates bearer tokens, checks the session record, and loads
// the principal for downstream handlers.
type Middleware struct {
	tokens     *TokenManager
	sessions   SessionStore
	identities IdentityStore
	gate       *Gate
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions SessionStore, identities IdentityStore, gate *Gate) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, identities: identities, gate: gate}
}

// Handle enforces authentication for protected routes. A valid token whose
// session record is gone is treated as unauthenticated.
func (m *Middleware) Handle(c *fiber.Ctx) error {
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

	if _, err := m.sessions.Get(c.UserContext(), claims.SessionID); err != nil {
		return apperrors.NewUnauthorized("session expired")
	}

	identity, err := m.identities.GetByUsername(claims.Username)
	if err != nil {
		return apperrors.NewUnauthorized("unknown identity")
	}

	c.Locals(principalKey, &Principal{SessionID: claims.SessionID, Identity: identity})
	return c.Next()
}

// RequireRole returns a handler enforcing the gate decision for a role.
func (m *Middleware) RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		var identity *domain.Identity
		if principal != nil {
			identity = principal.Identity
		}
		switch m.gate.Check(identity, required) {
		case DecisionAllow:
			return c.Next()
		case DecisionRequireLogin:
			return apperrors.NewUnauthorized("authentication required")
		default:
			return apperrors.NewRoleForbidden(string(required), string(identity.Role))
		}
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
