package gate

// Package gate implements the route-protection edge of the storefront:
// classifying request paths, resolving the session behind the request's
// cookies, and deciding whether to pass the request through or redirect.

import "strings"

// RouteClass partitions URL paths for the access policy.
// Every path belongs to exactly one class.
type RouteClass string

const (
	// ClassAuth covers the login and signup pages.
	ClassAuth RouteClass = "auth"
	// ClassAdmin covers the administrative console.
	ClassAdmin RouteClass = "admin"
	// ClassDashboard covers the member dashboard.
	ClassDashboard RouteClass = "dashboard"
	// ClassPublic covers everything else.
	ClassPublic RouteClass = "public"
)

// classPrefix binds a path prefix to its class.
type classPrefix struct {
	prefix string
	class  RouteClass
}

// Classifier maps a request path to its RouteClass by longest matching
// prefix. Matching is case-sensitive; trailing segments under a protected
// prefix inherit the parent's classification.
type Classifier struct {
	prefixes []classPrefix
}

// NewClassifier builds the standard storefront classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		prefixes: []classPrefix{
			{prefix: "/auth/login", class: ClassAuth},
			{prefix: "/auth/signup", class: ClassAuth},
			{prefix: "/admin", class: ClassAdmin},
			{prefix: "/dashboard", class: ClassDashboard},
		},
	}
}

// Classify returns the RouteClass for the given path.
func (c *Classifier) Classify(path string) RouteClass {
	best := ClassPublic
	bestLen := -1
	for _, p := range c.prefixes {
		if !matchesPrefix(path, p.prefix) {
			continue
		}
		if len(p.prefix) > bestLen {
			best = p.class
			bestLen = len(p.prefix)
		}
	}
	return best
}

// matchesPrefix reports whether path equals prefix or sits underneath it.
// "/administrator" must not classify as "/admin".
func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	if len(path) == len(prefix) {
		return true
	}
	return path[len(prefix)] == '/' || path[len(prefix)] == '?'
}
