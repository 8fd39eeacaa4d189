package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	// RoleNone marks an identity whose profile row is missing or unresolved.
	// It fails every privileged check and is never an error condition.
	RoleNone Role = ""
)

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Identity represents the authenticated principal behind a session.
// Only its presence and stable ID participate in access decisions.
type Identity struct {
	UserID    string // stable user identifier (e.g. sub claim)
	Email     string
	ExpiresAt time.Time // absolute expiry from the identity backend
}

// Profile is the per-user record owned by the backing store.
// The gate only ever reads the role attribute.
type Profile struct {
	UserID    string    `json:"user_id"    db:"user_id"`
	Role      Role      `json:"role"       db:"role"`
	FullName  string    `json:"full_name"  db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session token carried in the request cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity derives the Identity view of the session.
func (s Session) Identity() Identity {
	return Identity{UserID: s.UserID, Email: s.Email, ExpiresAt: s.ExpiresAt}
}
