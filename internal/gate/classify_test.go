package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	c := NewClassifier()

	tests := []struct {
		name string
		path string
		want RouteClass
	}{
		{name: "root is public", path: "/", want: ClassPublic},
		{name: "collection is public", path: "/collection", want: ClassPublic},
		{name: "login page", path: "/auth/login", want: ClassAuth},
		{name: "signup page", path: "/auth/signup", want: ClassAuth},
		{name: "login subpath", path: "/auth/login/start", want: ClassAuth},
		{name: "auth callback is public", path: "/auth/callback", want: ClassPublic},
		{name: "admin console", path: "/admin", want: ClassAdmin},
		{name: "admin subpath", path: "/admin/catalog", want: ClassAdmin},
		{name: "deep admin subpath", path: "/admin/catalog/new", want: ClassAdmin},
		{name: "dashboard", path: "/dashboard", want: ClassDashboard},
		{name: "dashboard subpath", path: "/dashboard/orders", want: ClassDashboard},
		{name: "administrator is not admin", path: "/administrator", want: ClassPublic},
		{name: "dashboards is not dashboard", path: "/dashboards", want: ClassPublic},
		{name: "case sensitive", path: "/Admin", want: ClassPublic},
		{name: "api is public", path: "/api/catalog", want: ClassPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Classify(tt.path))
		})
	}
}

func TestClassifier_LongestPrefixWins(t *testing.T) {
	t.Parallel()

	// "/auth/login" must beat a hypothetical shorter overlapping prefix. The
	// standard classifier has no overlaps, so build one that does.
	c := &Classifier{prefixes: []classPrefix{
		{prefix: "/admin", class: ClassAdmin},
		{prefix: "/admin/help", class: ClassPublic},
	}}

	assert.Equal(t, ClassPublic, c.Classify("/admin/help"))
	assert.Equal(t, ClassPublic, c.Classify("/admin/help/faq"))
	assert.Equal(t, ClassAdmin, c.Classify("/admin/users"))
}

func TestMatchesPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"/admin", "/admin", true},
		{"/admin/", "/admin", true},
		{"/admin/users", "/admin", true},
		{"/admin?tab=1", "/admin", true},
		{"/administrator", "/admin", false},
		{"/adm", "/admin", false},
		{"/other", "/admin", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesPrefix(tt.path, tt.prefix), "path=%s prefix=%s", tt.path, tt.prefix)
	}
}
