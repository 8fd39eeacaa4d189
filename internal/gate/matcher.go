package gate

import (
	"path"
	"strings"

	"github.com/solenne/boutique/config"
)

// Matcher reports whether the gate should inspect a request path at all.
// Paths it rejects bypass session resolution entirely.
type Matcher func(requestPath string) bool

// NarrowMatcher inspects only the four protected prefixes. This mirrors the
// minimal matcher variant; the broad matcher is the production default.
func NarrowMatcher() Matcher {
	prefixes := []string{"/admin", "/dashboard", "/auth/login", "/auth/signup"}
	return func(requestPath string) bool {
		for _, p := range prefixes {
			if matchesPrefix(requestPath, p) {
				return true
			}
		}
		return false
	}
}

// BroadMatcher inspects every path except static assets and paths carrying a
// file extension (images, scripts, fonts and the like).
func BroadMatcher(staticPrefixes []string) Matcher {
	return func(requestPath string) bool {
		for _, p := range staticPrefixes {
			if strings.HasPrefix(requestPath, p) {
				return false
			}
		}
		if ext := path.Ext(requestPath); ext != "" {
			return false
		}
		return true
	}
}

// MatcherFromConfig builds the configured matcher variant.
func MatcherFromConfig(cfg config.GateConfig) Matcher {
	if cfg.MatchMode == config.GateMatchNarrow {
		return NarrowMatcher()
	}
	return BroadMatcher(cfg.StaticPrefixes)
}
