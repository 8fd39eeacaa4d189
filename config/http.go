package config

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://shop.solenne.com").
	// Used for generating absolute URLs in auth redirects and certificates.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
// A cookie domain that is itself a public suffix (e.g. "com", "co.uk") would
// be rejected by browsers anyway; clear it so cookies fall back to host-only.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.CookieDomain != "" {
		d := strings.TrimPrefix(h.CookieDomain, ".")
		if suffix, _ := publicsuffix.PublicSuffix(d); suffix == d {
			h.CookieDomain = ""
		}
	}
}
