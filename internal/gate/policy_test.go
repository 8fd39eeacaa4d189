package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
)

func memberIdentity() *domainauth.Identity {
	return &domainauth.Identity{
		UserID:    "user-1",
		Email:     "member@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestPolicy_Decide(t *testing.T) {
	t.Parallel()

	p := NewPolicy()

	tests := []struct {
		name     string
		path     string
		identity *domainauth.Identity
		role     domainauth.Role
		want     Decision
	}{
		{
			name:     "anonymous on public path passes",
			path:     "/collection",
			identity: nil,
			want:     Allow(),
		},
		{
			name:     "anonymous on login page passes",
			path:     "/auth/login",
			identity: nil,
			want:     Allow(),
		},
		{
			name:     "authenticated on login page bounces to dashboard",
			path:     "/auth/login",
			identity: memberIdentity(),
			role:     domainauth.RoleMember,
			want:     RedirectTo("/dashboard"),
		},
		{
			name:     "authenticated on signup page bounces to dashboard",
			path:     "/auth/signup",
			identity: memberIdentity(),
			role:     domainauth.RoleMember,
			want:     RedirectTo("/dashboard"),
		},
		{
			name:     "anonymous on admin goes to login",
			path:     "/admin",
			identity: nil,
			want:     RedirectTo("/auth/login"),
		},
		{
			name:     "member on admin goes to dashboard",
			path:     "/admin/catalog",
			identity: memberIdentity(),
			role:     domainauth.RoleMember,
			want:     RedirectTo("/dashboard"),
		},
		{
			name:     "roleless identity on admin goes to dashboard",
			path:     "/admin",
			identity: memberIdentity(),
			role:     domainauth.RoleNone,
			want:     RedirectTo("/dashboard"),
		},
		{
			name:     "admin on admin passes",
			path:     "/admin/catalog/new",
			identity: memberIdentity(),
			role:     domainauth.RoleAdmin,
			want:     Allow(),
		},
		{
			name:     "anonymous on dashboard goes to login",
			path:     "/dashboard",
			identity: nil,
			want:     RedirectTo("/auth/login"),
		},
		{
			name:     "member on dashboard passes",
			path:     "/dashboard/orders",
			identity: memberIdentity(),
			role:     domainauth.RoleMember,
			want:     Allow(),
		},
		{
			name:     "roleless identity on dashboard passes",
			path:     "/dashboard",
			identity: memberIdentity(),
			role:     domainauth.RoleNone,
			want:     Allow(),
		},
		{
			name:     "admin on public path passes",
			path:     "/",
			identity: memberIdentity(),
			role:     domainauth.RoleAdmin,
			want:     Allow(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.Decide(tt.path, tt.identity, tt.role)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_AuthPageRuleWinsOverAdminRule(t *testing.T) {
	t.Parallel()

	// An authenticated admin visiting the login page still bounces to the
	// dashboard; the auth-page rule is checked first.
	p := NewPolicy()
	got := p.Decide("/auth/login", memberIdentity(), domainauth.RoleAdmin)
	assert.Equal(t, RedirectTo("/dashboard"), got)
}
