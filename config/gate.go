package config

import (
	"fmt"
	"strings"
	"time"
)

// GateMatchMode selects which requests the route-protection gate inspects.
type GateMatchMode string

const (
	// GateMatchBroad applies the gate to every path except static assets
	// and paths with a declared file extension.
	GateMatchBroad GateMatchMode = "broad"
	// GateMatchNarrow applies the gate only to the protected prefixes
	// (/admin, /dashboard, /auth/login, /auth/signup).
	GateMatchNarrow GateMatchMode = "narrow"
)

// UnmarshalText implements encoding.TextUnmarshaler for GateMatchMode.
func (m *GateMatchMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "broad", "narrow":
		*m = GateMatchMode(v)
		return nil
	default:
		return fmt.Errorf("invalid GateMatchMode: %q (valid options: broad, narrow)", v)
	}
}

// GateConfig configures the route-protection gate.
type GateConfig struct {
	// MatchMode selects the broad or narrow request matcher.
	MatchMode GateMatchMode `env:"MATCH_MODE" envDefault:"broad"`

	// ResolveTimeout bounds the identity-backend calls made per request.
	// Resolution that exceeds it is treated as anonymous (fail closed).
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"3s"`

	// StaticPrefixes are path prefixes the broad matcher skips entirely.
	StaticPrefixes []string `env:"STATIC_PREFIXES" envDefault:"/static/;/assets/;/favicon.ico" envSeparator:";"`
}

// Sanitize applies guardrails to gate configuration values.
func (g *GateConfig) Sanitize() {
	if g.ResolveTimeout <= 0 {
		g.ResolveTimeout = 3 * time.Second
	}
	if g.MatchMode == "" {
		g.MatchMode = GateMatchBroad
	}
}
