package gate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/boutique/internal/adapters/authroles"
	domainauth "github.com/solenne/boutique/internal/domain/auth"
	mockauth "github.com/solenne/boutique/internal/mocks/auth"
	"github.com/solenne/boutique/internal/ports"
)

// stubSessionService is a scriptable SessionService for resolver tests.
type stubSessionService struct {
	sess    *domainauth.Session
	rotated bool
	err     error

	gotToken string
}

func (s *stubSessionService) ResolveSession(_ context.Context, token string) (*domainauth.Session, bool, error) {
	s.gotToken = token
	return s.sess, s.rotated, s.err
}

func newResolverForTest(sessions SessionService, profiles ports.ProfileStore) *Resolver {
	return NewResolver(ResolverOptions{
		Sessions: sessions,
		Profiles: profiles,
		Roles:    authroles.ProfileRoleMapper{},
	})
}

func requestWithSessionCookie(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	return req
}

func TestResolver_NoCookieResolvesAnonymous(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionService{}
	r := newResolverForTest(sessions, mockauth.NewMemoryProfileStore())

	res := r.Resolve(context.Background(), requestWithSessionCookie(""))

	assert.Nil(t, res.Identity)
	assert.Empty(t, res.Mutations)
	assert.Empty(t, sessions.gotToken)
}

func TestResolver_SessionBackendErrorFailsClosed(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionService{err: errors.New("redis: connection refused")}
	r := newResolverForTest(sessions, mockauth.NewMemoryProfileStore())

	res := r.Resolve(context.Background(), requestWithSessionCookie("tok-1"))

	assert.Nil(t, res.Identity)
	assert.Equal(t, domainauth.RoleNone, res.Role)
	// The cookie stays untouched; the token may still be valid once the
	// backend recovers.
	assert.Empty(t, res.Mutations)
}

func TestResolver_InvalidTokenClearsCookie(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionService{sess: nil}
	r := newResolverForTest(sessions, mockauth.NewMemoryProfileStore())

	res := r.Resolve(context.Background(), requestWithSessionCookie("stale-tok"))

	assert.Nil(t, res.Identity)
	require.Len(t, res.Mutations, 1)
	cookie := res.Mutations[0].Cookie
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestResolver_ValidSessionWithProfile(t *testing.T) {
	t.Parallel()

	sess := domainauth.Session{
		ID:        "tok-1",
		UserID:    "user-1",
		Email:     "member@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	sessions := &stubSessionService{sess: &sess}
	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleAdmin})

	r := newResolverForTest(sessions, profiles)
	res := r.Resolve(context.Background(), requestWithSessionCookie("tok-1"))

	require.NotNil(t, res.Identity)
	assert.Equal(t, "user-1", res.Identity.UserID)
	assert.Equal(t, domainauth.RoleAdmin, res.Role)
	assert.Empty(t, res.Mutations)
	assert.Equal(t, "tok-1", sessions.gotToken)
}

func TestResolver_RotatedSessionEmitsCookieMutation(t *testing.T) {
	t.Parallel()

	sess := domainauth.Session{
		ID:        "tok-rotated",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(8 * time.Hour),
	}
	sessions := &stubSessionService{sess: &sess, rotated: true}
	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleMember})

	r := newResolverForTest(sessions, profiles)
	res := r.Resolve(context.Background(), requestWithSessionCookie("tok-old"))

	require.NotNil(t, res.Identity)
	require.Len(t, res.Mutations, 1)
	cookie := res.Mutations[0].Cookie
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "tok-rotated", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Positive(t, cookie.MaxAge)
}

func TestResolver_MissingProfileMeansNoRole(t *testing.T) {
	t.Parallel()

	sess := domainauth.Session{
		ID:        "tok-1",
		UserID:    "user-without-profile",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	sessions := &stubSessionService{sess: &sess}

	r := newResolverForTest(sessions, mockauth.NewMemoryProfileStore())
	res := r.Resolve(context.Background(), requestWithSessionCookie("tok-1"))

	// The identity survives; only the role is absent.
	require.NotNil(t, res.Identity)
	assert.Equal(t, domainauth.RoleNone, res.Role)
}

func TestResolver_ProfileBackendErrorFailsClosed(t *testing.T) {
	t.Parallel()

	sess := domainauth.Session{
		ID:        "tok-rotated",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(8 * time.Hour),
	}
	sessions := &stubSessionService{sess: &sess, rotated: true}
	profiles := mockauth.NewMemoryProfileStore()
	profiles.GetErr = errors.New("pg: connection refused")

	r := newResolverForTest(sessions, profiles)
	res := r.Resolve(context.Background(), requestWithSessionCookie("tok-old"))

	// Anonymous for policy purposes, but the rotated cookie still propagates
	// so the fresh token is not lost.
	assert.Nil(t, res.Identity)
	assert.Equal(t, domainauth.RoleNone, res.Role)
	require.Len(t, res.Mutations, 1)
	assert.Equal(t, "tok-rotated", res.Mutations[0].Cookie.Value)
}

func TestResolver_SecureCookieBehindProxy(t *testing.T) {
	t.Parallel()

	sess := domainauth.Session{
		ID:        "tok-rotated",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	sessions := &stubSessionService{sess: &sess, rotated: true}
	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleMember})

	r := newResolverForTest(sessions, profiles)

	req := requestWithSessionCookie("tok-old")
	req.Header.Set("X-Forwarded-Proto", "https")
	res := r.Resolve(context.Background(), req)

	require.Len(t, res.Mutations, 1)
	assert.True(t, res.Mutations[0].Cookie.Secure)
}
