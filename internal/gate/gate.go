package gate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/solenne/boutique/config"
	"github.com/solenne/boutique/internal/observability/metrics"
)

// Options groups dependencies for the Gate.
type Options struct {
	Resolver *Resolver
	Policy   *Policy
	Matcher  Matcher
	// ResolveTimeout bounds the identity-backend calls for one request.
	// Exceeding it resolves to anonymous.
	ResolveTimeout time.Duration
	Logger         *slog.Logger
	Metrics        *metrics.GateMetrics
}

// Gate is the edge interceptor: for every matched request it resolves the
// session, propagates refreshed cookies onto the response, and either
// redirects per the access policy or passes the request through.
// It holds no per-request state; each request is handled independently.
type Gate struct {
	resolver       *Resolver
	policy         *Policy
	matcher        Matcher
	resolveTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.GateMetrics
}

// New constructs a Gate.
func New(opts Options) *Gate {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = BroadMatcher(nil)
	}
	policy := opts.Policy
	if policy == nil {
		policy = NewPolicy()
	}
	timeout := opts.ResolveTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Gate{
		resolver:       opts.Resolver,
		policy:         policy,
		matcher:        matcher,
		resolveTimeout: timeout,
		logger:         logger,
		metrics:        opts.Metrics,
	}
}

// FromConfig builds a Gate from app configuration and a resolver.
func FromConfig(cfg config.GateConfig, resolver *Resolver, m *metrics.GateMetrics) *Gate {
	return New(Options{
		Resolver:       resolver,
		Matcher:        MatcherFromConfig(cfg),
		ResolveTimeout: cfg.ResolveTimeout,
		Metrics:        m,
	})
}

// Middleware wires the gate in front of next.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.matcher(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.resolveTimeout)
		start := time.Now()
		res := g.resolver.Resolve(ctx, r)
		cancel()
		g.metrics.ObserveResolve(time.Since(start))

		// Refreshed cookies go onto the response before anything else so
		// they survive both outcomes, redirect included.
		for _, m := range res.Mutations {
			m.Apply(w)
		}

		decision := g.policy.Decide(r.URL.Path, res.Identity, res.Role)
		class := string(g.policy.classifier.Classify(r.URL.Path))
		g.metrics.ObserveDecision(class, string(decision.Kind))

		if decision.Kind == DecisionRedirect {
			g.logger.DebugContext(r.Context(), "gate redirect",
				"path", r.URL.Path, "target", decision.Target, "anonymous", res.Identity == nil)
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), res.Identity, res.Role)))
	})
}
