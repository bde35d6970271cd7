package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/it-helpdesk/pkg/util"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memorySessionStore) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	return session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memorySessionStore) {
	t.Helper()
	identities, err := auth.NewStaticIdentityStore(bcrypt.MinCost)
	require.NoError(t, err)
	sessions := newMemorySessionStore()
	svc := NewAuthService(AuthDependencies{
		Identities: identities,
		Sessions:   sessions,
		Tokens:     auth.NewTokenManager("test-secret", time.Hour),
	})
	return svc, sessions
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	svc, sessions := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "manager", "manager123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleManager, result.Identity.Role)
	assert.Len(t, sessions.sessions, 1)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)
	_, err = sessions.Get(context.Background(), claims.SessionID)
	assert.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, sessions := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "manager", "wrong")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Empty(t, sessions.sessions)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := newTestAuthService(t)

	result, err := svc.Login(context.Background(), "staff-a", "staff123")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))
	_, err = sessions.Get(context.Background(), claims.SessionID)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}
