package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
)

// ErrProfileNotFound is returned by ProfileStore when no row exists for the
// user. Callers treat it as "no role", never as a failure.
var ErrProfileNotFound = errors.New("profile not found")

// ErrSessionNotFound is returned by SessionStore when no session exists for
// the token. The resolver treats it as an anonymous visitor, not a failure.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against the
// hosted identity backend.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ProfileStore reads per-user profile rows owned by the backing store.
// A missing row is reported as ErrProfileNotFound, never invented.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*domainauth.Profile, error)
}

// ProfileUpserter creates or refreshes the profile row for a user at login.
// Role grants are never written through this port.
type ProfileUpserter interface {
	Upsert(ctx context.Context, userID, fullName string) (*domainauth.Profile, error)
}

// RoleMapper maps a raw profile role attribute to an application role.
type RoleMapper interface {
	Map(raw string) domainauth.Role
}
