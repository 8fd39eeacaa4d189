package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solenne/boutique/internal/adapters/authroles"
	domainauth "github.com/solenne/boutique/internal/domain/auth"
	mockauth "github.com/solenne/boutique/internal/mocks/auth"
)

// newGateForTest wires a Gate over a scripted session service and seeded
// profile store, using the broad matcher so every test path is inspected.
func newGateForTest(sessions SessionService, profiles *mockauth.MemoryProfileStore) *Gate {
	resolver := NewResolver(ResolverOptions{
		Sessions: sessions,
		Profiles: profiles,
		Roles:    authroles.ProfileRoleMapper{},
	})
	return New(Options{Resolver: resolver})
}

func liveSession(userID string) *domainauth.Session {
	return &domainauth.Session{
		ID:        "tok-1",
		UserID:    userID,
		Email:     userID + "@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestGate_AnonymousOnPublicPathPassesThrough(t *testing.T) {
	t.Parallel()

	g := newGateForTest(&stubSessionService{}, mockauth.NewMemoryProfileStore())

	called := false
	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := VisitorFromContext(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/collection", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_AnonymousOnDashboardRedirectsToLogin(t *testing.T) {
	t.Parallel()

	g := newGateForTest(&stubSessionService{}, mockauth.NewMemoryProfileStore())

	handler := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on a redirected request")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestGate_MemberOnAdminRedirectsToDashboard(t *testing.T) {
	t.Parallel()

	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleMember})
	g := newGateForTest(&stubSessionService{sess: liveSession("user-1")}, profiles)

	req := httptest.NewRequest(http.MethodGet, "/admin/catalog", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})

	rec := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a non-admin on the console")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGate_AdminOnAdminPassesWithVisitor(t *testing.T) {
	t.Parallel()

	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleAdmin})
	g := newGateForTest(&stubSessionService{sess: liveSession("user-1")}, profiles)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})

	var visitor *Visitor
	rec := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := VisitorFromContext(r.Context())
		require.True(t, ok)
		visitor = v
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, visitor)
	assert.Equal(t, "user-1", visitor.Identity.UserID)
	assert.Equal(t, domainauth.RoleAdmin, visitor.Role)
}

func TestGate_RotatedCookieSurvivesRedirect(t *testing.T) {
	t.Parallel()

	// A member whose session rotated on this read gets bounced off the admin
	// console, and the fresh cookie must ride along on the redirect response.
	profiles := mockauth.NewMemoryProfileStore()
	profiles.Put(domainauth.Profile{UserID: "user-1", Role: domainauth.RoleMember})
	sessions := &stubSessionService{sess: liveSession("user-1"), rotated: true}
	g := newGateForTest(sessions, profiles)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-old"})

	rec := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on a redirected request")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, "tok-1", cookies[0].Value)
}

func TestGate_StaleCookieClearedOnPublicPath(t *testing.T) {
	t.Parallel()

	g := newGateForTest(&stubSessionService{sess: nil}, mockauth.NewMemoryProfileStore())

	req := httptest.NewRequest(http.MethodGet, "/collection", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})

	rec := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGate_MatcherBypassSkipsResolution(t *testing.T) {
	t.Parallel()

	sessions := &stubSessionService{}
	resolver := NewResolver(ResolverOptions{
		Sessions: sessions,
		Profiles: mockauth.NewMemoryProfileStore(),
		Roles:    authroles.ProfileRoleMapper{},
	})
	g := New(Options{Resolver: resolver, Matcher: NarrowMatcher()})

	req := httptest.NewRequest(http.MethodGet, "/collection", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-1"})

	rec := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// The narrow matcher never inspected the path, so the session service was
	// never consulted.
	assert.Empty(t, sessions.gotToken)
}
