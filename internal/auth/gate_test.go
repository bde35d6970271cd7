package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

func TestGateCheck(t *testing.T) {
	gate := NewGate()
	managerIdentity := &domain.Identity{Username: "manager", Role: domain.RoleManager}
	staffIdentity := &domain.Identity{Username: "staff-a", Role: domain.RoleStaff}

	tests := []struct {
		name     string
		identity *domain.Identity
		required domain.Role
		want     Decision
	}{
		{"anonymous needs login", nil, domain.RoleManager, DecisionRequireLogin},
		{"manager enters manager surface", managerIdentity, domain.RoleManager, DecisionAllow},
		{"staff enters staff surface", staffIdentity, domain.RoleStaff, DecisionAllow},
		{"staff denied manager surface", staffIdentity, domain.RoleManager, DecisionDenyRole},
		{"manager denied staff surface", managerIdentity, domain.RoleStaff, DecisionDenyRole},
		{"empty role means auth only", staffIdentity, "", DecisionAllow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, gate.Check(tc.identity, tc.required))
		})
	}
}
