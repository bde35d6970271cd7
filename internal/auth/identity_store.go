package auth

import (
	"errors"

	"github.com/spec-kit/it-helpdesk/internal/domain"
)

// ErrInvalidCredentials is returned when no identity matches the
// username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// IdentityStore resolves login credentials to an identity. The default
// implementation is a fixed in-memory table; a production deployment can
// swap in a real credential backend.
type IdentityStore interface {
	Resolve(username, password string) (*domain.Identity, error)
	GetByUsername(username string) (*domain.Identity, error)
}

type seedUser struct {
	identity domain.Identity
	password string
}

// defaultUsers mirrors the seeded credential table of the legacy system.
var defaultUsers = []seedUser{
	{identity: domain.Identity{ID: 1, Username: "staff-a", Role: domain.RoleStaff, Name: "System Administrator"}, password: "staff123"},
	{identity: domain.Identity{ID: 2, Username: "manager", Role: domain.RoleManager, Name: "IT Manager"}, password: "manager123"},
	{identity: domain.Identity{ID: 3, Username: "staff-b", Role: domain.RoleStaff, Name: "IT Staff"}, password: "staff123"},
}

type staticIdentityStore struct {
	identities map[string]domain.Identity
	hashes     map[string]string
}

// NewStaticIdentityStore builds the fixed credential table, hashing the
// seeded passwords with bcrypt at the given cost.
func NewStaticIdentityStore(bcryptCost int) (IdentityStore, error) {
	store := &staticIdentityStore{
		identities: make(map[string]domain.Identity, len(defaultUsers)),
		hashes:     make(map[string]string, len(defaultUsers)),
	}
	for _, u := range defaultUsers {
		hash, err := HashPassword(u.password, bcryptCost)
		if err != nil {
			return nil, err
		}
		store.identities[u.identity.Username] = u.identity
		store.hashes[u.identity.Username] = hash
	}
	return store, nil
}

func (s *staticIdentityStore) Resolve(username, password string) (*domain.Identity, error) {
	hash, ok := s.hashes[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := ComparePassword(hash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	identity := s.identities[username]
	return &identity, nil
}

func (s *staticIdentityStore) GetByUsername(username string) (*domain.Identity, error) {
	identity, ok := s.identities[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &identity, nil
}
