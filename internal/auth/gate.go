package auth

import "github.com/spec-kit/it-helpdesk/internal/domain"

// Decision is the outcome of an access check.
type Decision int

const (
	// DecisionAllow grants access.
	DecisionAllow Decision = iota
	// DecisionRequireLogin means no authenticated identity is present.
	DecisionRequireLogin
	// DecisionDenyRole means the caller is authenticated but lacks the
	// required role.
	DecisionDenyRole
)

// Gate decides whether an identity may enter a role-protected surface.
// Role matching is plain equality; there is no superuser bypass.
type Gate struct{}

// NewGate constructs the access gate.
func NewGate() *Gate {
	return &Gate{}
}

// Check evaluates the identity against the required role. A zero required
// role means only authentication is needed.
func (g *Gate) Check(identity *domain.Identity, required domain.Role) Decision {
	if identity == nil {
		return DecisionRequireLogin
	}
	if required == "" || identity.Role == required {
		return DecisionAllow
	}
	return DecisionDenyRole
}
