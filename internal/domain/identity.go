package domain

import "time"

// Role enumerates IT operator roles.
type Role string

const (
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Identity models one entry of the credential table: an IT operator who can
// sign in. Identities are fixed; none are created or destroyed at runtime.
type Identity struct {
	ID       int
	Username string
	Role     Role
	Name     string
}

// Session wraps one authenticated Identity. Created on login, destroyed on
// logout or token expiry; it carries no other state.
type Session struct {
	ID        string
	Identity  Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
