package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-helpdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticIdentityStoreResolve(t *testing.T) {
	store, err := NewStaticIdentityStore(bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		username string
		password string
		role     domain.Role
		name     string
	}{
		{"staff-a", "staff123", domain.RoleStaff, "System Administrator"},
		{"manager", "manager123", domain.RoleManager, "IT Manager"},
		{"staff-b", "staff123", domain.RoleStaff, "IT Staff"},
	}

	for _, tc := range tests {
		t.Run(tc.username, func(t *testing.T) {
			identity, err := store.Resolve(tc.username, tc.password)
			require.NoError(t, err)
			assert.Equal(t, tc.username, identity.Username)
			assert.Equal(t, tc.role, identity.Role)
			assert.Equal(t, tc.name, identity.Name)
		})
	}
}

func TestStaticIdentityStoreRejectsBadCredentials(t *testing.T) {
	store, err := NewStaticIdentityStore(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = store.Resolve("manager", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.Resolve("nobody", "staff123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetByUsername(t *testing.T) {
	store, err := NewStaticIdentityStore(bcrypt.MinCost)
	require.NoError(t, err)

	identity, err := store.GetByUsername("staff-b")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, identity.Role)

	_, err = store.GetByUsername("ghost")
	assert.Error(t, err)
}
