package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	identity := &domain.Identity{ID: 2, Username: "manager", Role: domain.RoleManager, Name: "IT Manager"}

	token, expiresAt, err := tm.GenerateToken("session-1", identity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "manager", claims.Username)
	assert.Equal(t, domain.RoleManager, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)
	identity := &domain.Identity{Username: "staff-a", Role: domain.RoleStaff}

	token, _, err := issuer.GenerateToken("session-2", identity)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Millisecond)
	identity := &domain.Identity{Username: "staff-a", Role: domain.RoleStaff}

	token, _, err := tm.GenerateToken("session-3", identity)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}
