package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Profiles ports.ProfileUpserter
	// SessionTTL is the lifetime of a freshly minted session.
	SessionTTL time.Duration
	// RefreshWindow rotates a session read within this much of its expiry.
	RefreshWindow time.Duration
	Logger        *slog.Logger
}

// AuthService orchestrates authentication flows by coordinating the identity
// provider, profile bootstrap, and session persistence. It also implements
// gate.SessionService via ResolveSession.
type AuthService struct {
	provider      ports.AuthProvider
	sessions      ports.SessionStore
	profiles      ports.ProfileUpserter
	sessionTTL    time.Duration
	refreshWindow time.Duration
	logger        *slog.Logger
}

const (
	defaultSessionTTL    = 8 * time.Hour
	defaultRefreshWindow = time.Hour
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	sessionTTL := opts.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	refreshWindow := opts.RefreshWindow
	if refreshWindow <= 0 {
		refreshWindow = defaultRefreshWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:      opts.Provider,
		sessions:      opts.Sessions,
		profiles:      opts.Profiles,
		sessionTTL:    sessionTTL,
		refreshWindow: refreshWindow,
		logger:        logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for
// an identity, ensuring a profile row exists, and persisting a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	// First login creates the member profile row; the role stays whatever
	// the store already holds on subsequent logins.
	if s.profiles != nil {
		if _, upsertErr := s.profiles.Upsert(ctx, identity.UserID, identity.Email); upsertErr != nil {
			s.logger.WarnContext(ctx, "profile bootstrap failed", "user_id", identity.UserID, "error", upsertErr)
		}
	}

	session := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Email:     identity.Email,
		ExpiresAt: s.sessionExpiry(identity.ExpiresAt),
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// ResolveSession resolves an opaque token to a live session. Reads close to
// expiry rotate the token: a fresh session is minted and persisted, the old
// one deleted, and rotated=true tells the caller to re-set the cookie.
// Absent, invalid, or expired tokens resolve to (nil, false, nil); errors are
// reserved for backend failures.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domainauth.Session, bool, error) {
	if token == "" {
		return nil, false, nil
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get session: %w", err)
	}

	now := time.Now()
	if now.After(session.ExpiresAt) {
		// Expired sessions never reach the caller even if the store's own
		// reaping lags.
		if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
			s.logger.WarnContext(ctx, "expired session cleanup failed", "error", deleteErr)
		}
		return nil, false, nil
	}

	if session.ExpiresAt.Sub(now) > s.refreshWindow {
		return &session, false, nil
	}

	// Rotate: mint a new token so long-lived tabs stay signed in without
	// ever extending a fixed token's life.
	rotated := session
	rotated.ID = uuid.NewString()
	rotated.ExpiresAt = now.Add(s.sessionTTL)
	if saveErr := s.sessions.Save(ctx, rotated); saveErr != nil {
		// Keep serving the old session; rotation retries on the next read.
		s.logger.WarnContext(ctx, "session rotation save failed", "error", saveErr)
		return &session, false, nil
	}
	if deleteErr := s.sessions.Delete(ctx, token); deleteErr != nil {
		s.logger.WarnContext(ctx, "stale session delete failed", "error", deleteErr)
	}
	return &rotated, true, nil
}

// GetSession retrieves a session by ID without rotating it.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("delete expired session: %w", deleteErr)
		}
		return nil, ports.ErrSessionNotFound
	}
	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// sessionExpiry bounds the session lifetime by both the configured TTL and
// the identity backend's own expiry, whichever comes first.
func (s *AuthService) sessionExpiry(identityExpiry time.Time) time.Time {
	expiry := time.Now().Add(s.sessionTTL)
	if !identityExpiry.IsZero() && identityExpiry.Before(expiry) {
		expiry = identityExpiry
	}
	return expiry
}
