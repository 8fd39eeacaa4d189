package gate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/observability/metrics"
	"github.com/solenne/boutique/internal/ports"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// CookieMutation is one cookie write the resolver wants applied to the
// outgoing response. The gate applies mutations before it writes any
// redirect, so refreshed cookies survive even when the request is bounced.
type CookieMutation struct {
	Cookie http.Cookie
}

// Apply writes the mutation onto the response.
func (m CookieMutation) Apply(w http.ResponseWriter) {
	c := m.Cookie
	http.SetCookie(w, &c)
}

// Resolution is the outcome of resolving one request's cookies.
// Identity is nil for anonymous requests. Mutations must be applied to the
// outgoing response on every gate invocation, redirect or not.
type Resolution struct {
	Identity  *domainauth.Identity
	Role      domainauth.Role
	Mutations []CookieMutation
}

// SessionService resolves an opaque session token to a live session,
// reporting whether the read rotated the token. An absent, invalid, or
// expired session resolves to (nil, false, nil); errors are reserved for
// backend failures.
type SessionService interface {
	ResolveSession(ctx context.Context, token string) (sess *domainauth.Session, rotated bool, err error)
}

// ResolverOptions groups dependencies for Resolver.
type ResolverOptions struct {
	Sessions     SessionService
	Profiles     ports.ProfileStore
	Roles        ports.RoleMapper
	CookieDomain string
	Logger       *slog.Logger
	Metrics      *metrics.GateMetrics
}

// Resolver marshals request cookies into identity-backend lookups and
// marshals session-refresh side effects back into cookie mutations.
// Backend failures resolve to anonymous; they never escape as errors.
type Resolver struct {
	sessions     SessionService
	profiles     ports.ProfileStore
	roles        ports.RoleMapper
	cookieDomain string
	logger       *slog.Logger
	metrics      *metrics.GateMetrics
}

// NewResolver constructs a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		sessions:     opts.Sessions,
		profiles:     opts.Profiles,
		roles:        opts.Roles,
		cookieDomain: opts.CookieDomain,
		logger:       logger,
		metrics:      opts.Metrics,
	}
}

// Resolve determines the identity and role behind the request's cookies.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) Resolution {
	cookie, err := req.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Resolution{}
	}

	sess, rotated, err := r.sessions.ResolveSession(ctx, cookie.Value)
	if err != nil {
		// Identity backend unavailable: treat as anonymous. Leave the cookie
		// alone; the session may still be valid once the backend recovers.
		r.logger.WarnContext(ctx, "session resolution failed, treating as anonymous", "error", err)
		r.metrics.ObserveResolveFailure()
		return Resolution{}
	}
	if sess == nil {
		// Invalid or expired token: anonymous, and drop the stale cookie.
		return Resolution{Mutations: []CookieMutation{r.clearSessionCookie(req)}}
	}

	res := Resolution{}
	identity := sess.Identity()
	res.Identity = &identity
	if rotated {
		res.Mutations = append(res.Mutations, r.setSessionCookie(req, *sess))
	}

	profile, err := r.profiles.GetByUserID(ctx, sess.UserID)
	switch {
	case errors.Is(err, ports.ErrProfileNotFound):
		res.Role = domainauth.RoleNone
	case err != nil:
		// Fail closed: without a readable profile the request is anonymous
		// for policy purposes, but refreshed cookies still propagate.
		r.logger.WarnContext(ctx, "profile lookup failed, treating as anonymous",
			"user_id", sess.UserID, "error", err)
		r.metrics.ObserveResolveFailure()
		res.Identity = nil
		res.Role = domainauth.RoleNone
	default:
		res.Role = r.roles.Map(string(profile.Role))
	}

	return res
}

// setSessionCookie builds the refreshed session cookie mutation.
func (r *Resolver) setSessionCookie(req *http.Request, s domainauth.Session) CookieMutation {
	return CookieMutation{Cookie: http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   r.cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(req),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	}}
}

// clearSessionCookie builds a deletion mutation for a stale session cookie.
func (r *Resolver) clearSessionCookie(req *http.Request) CookieMutation {
	return CookieMutation{Cookie: http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   r.cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(req),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	}}
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
