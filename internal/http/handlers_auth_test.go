package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
	"github.com/solenne/boutique/internal/gate"
	"github.com/solenne/boutique/internal/service"
)

// fakeAuthService is a scriptable AuthServiceInterface.
type fakeAuthService struct {
	beginFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeFunc func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	getFunc      func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc   func(ctx context.Context, sessionID string) error
}

func (f *fakeAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.beginFunc != nil {
		return f.beginFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "state-1", Nonce: "nonce-1"}, nil
}

func (f *fakeAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.completeFunc != nil {
		return f.completeFunc(ctx, input)
	}
	return &service.CompleteLoginResult{Session: domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Email:     "member@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}}, nil
}

func (f *fakeAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, sessionID)
	}
	return nil, errors.New("no session")
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	if f.logoutFunc != nil {
		return f.logoutFunc(ctx, sessionID)
	}
	return nil
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestAuthHandlers_Login(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login/start?redirect_uri=/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/auth", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	assert.Equal(t, "state-1", cookieByName(t, cookies, "oauth_state").Value)
	assert.Equal(t, "nonce-1", cookieByName(t, cookies, "oauth_nonce").Value)
	assert.Equal(t, "/dashboard", cookieByName(t, cookies, "post_login_redirect").Value)
}

func TestAuthHandlers_Login_RejectsAbsoluteRedirect(t *testing.T) {
	t.Parallel()

	var gotRedirect string
	h := &AuthHandlers{Svc: &fakeAuthService{
		beginFunc: func(_ context.Context, redirectURL string) (*service.BeginLoginResult, error) {
			gotRedirect = redirectURL
			return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "s", Nonce: "n"}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login/start?redirect_uri=https://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, "/", gotRedirect)
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	t.Parallel()

	var gotInput service.CompleteLoginInput
	h := &AuthHandlers{Svc: &fakeAuthService{
		completeFunc: func(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			gotInput = input
			return &service.CompleteLoginResult{Session: domainauth.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(time.Hour),
			}}, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})

	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteLoginInput{Code: "code-1", State: "state-1", Nonce: "nonce-1"}, gotInput)

	cookies := rec.Result().Cookies()
	session := cookieByName(t, cookies, gate.SessionCookieName)
	assert.Equal(t, "sess-1", session.Value)
	assert.Positive(t, session.MaxAge)

	// Temporary OAuth cookies are cleared.
	assert.Equal(t, -1, cookieByName(t, cookies, "oauth_state").MaxAge)
	assert.Equal(t, -1, cookieByName(t, cookies, "oauth_nonce").MaxAge)
}

func TestAuthHandlers_Callback_StateMismatch(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "different"})

	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestAuthHandlers_Callback_MissingParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		errCode string
	}{
		{name: "missing code", target: "/auth/callback?state=s", errCode: "missing_code"},
		{name: "missing state", target: "/auth/callback?code=c", errCode: "missing_state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := &AuthHandlers{Svc: &fakeAuthService{}}

			rec := httptest.NewRecorder()
			h.Callback(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.errCode)
		})
	}
}

func TestAuthHandlers_Logout_BrowserRedirect(t *testing.T) {
	t.Parallel()

	var loggedOut string
	h := &AuthHandlers{Svc: &fakeAuthService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: gate.SessionCookieName, Value: "sess-1"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "sess-1", loggedOut)
	assert.Equal(t, -1, cookieByName(t, rec.Result().Cookies(), gate.SessionCookieName).MaxAge)
}

func TestAuthHandlers_Logout_AJAX(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: gate.SessionCookieName, Value: "sess-1"})

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/"}`, rec.Body.String())
}

func TestAuthHandlers_Status_Anonymous(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{}}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

func TestAuthHandlers_Status_InvalidSessionClearsCookie(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{
		getFunc: func(context.Context, string) (*domainauth.Session, error) {
			return nil, errors.New("session not found")
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: gate.SessionCookieName, Value: "stale"})

	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	assert.Equal(t, -1, cookieByName(t, rec.Result().Cookies(), gate.SessionCookieName).MaxAge)
}

func TestAuthHandlers_Status_Authenticated(t *testing.T) {
	t.Parallel()

	h := &AuthHandlers{Svc: &fakeAuthService{
		getFunc: func(context.Context, string) (*domainauth.Session, error) {
			return &domainauth.Session{
				ID:        "sess-1",
				UserID:    "user-1",
				Email:     "member@example.com",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}}

	identity := domainauth.Identity{UserID: "user-1", Email: "member@example.com"}
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req = req.WithContext(gate.WithVisitor(req.Context(), &identity, domainauth.RoleMember))
	req.AddCookie(&http.Cookie{Name: gate.SessionCookieName, Value: "sess-1"})

	rec := httptest.NewRecorder()
	h.Status(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, `"email":"member@example.com"`)
	assert.Contains(t, body, `"role":"member"`)
}

func TestSafeRedirectPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		candidate string
		want      string
	}{
		{"", "/"},
		{"/", "/"},
		{"/dashboard", "/dashboard"},
		{"/dashboard?tab=orders", "/dashboard?tab=orders"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com", "/"},
		{"dashboard", "/"},
		{"://bad", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirectPath(tt.candidate), "candidate=%q", tt.candidate)
	}
}

func TestIsSecureRequest(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(plain))

	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "HTTPS")
	assert.True(t, isSecureRequest(proxied))

	tls := httptest.NewRequest(http.MethodGet, "https://solenne.example.com/", nil)
	require.NotNil(t, tls.TLS)
	assert.True(t, isSecureRequest(tls))
}
