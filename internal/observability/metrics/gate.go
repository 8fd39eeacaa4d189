package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GateMetrics holds Prometheus metrics for the route-protection gate.
type GateMetrics struct {
	Decisions       *prometheus.CounterVec
	ResolveFailures prometheus.Counter
	ResolveDuration prometheus.Histogram
}

// NewGateMetrics creates and registers gate metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in production wiring; tests use a fresh
// registry to avoid duplicate registration.
func NewGateMetrics(reg prometheus.Registerer) *GateMetrics {
	factory := promauto.With(reg)
	return &GateMetrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "boutique_gate_decisions_total",
			Help: "Access policy decisions by route class and outcome",
		}, []string{"class", "decision"}),
		ResolveFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "boutique_gate_resolve_failures_total",
			Help: "Session resolutions that failed and were treated as anonymous",
		}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "boutique_gate_resolve_duration_seconds",
			Help:    "Latency of session resolution against the identity backend",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveDecision records one policy decision.
func (m *GateMetrics) ObserveDecision(class, decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(class, decision).Inc()
}

// ObserveResolve records one session resolution.
func (m *GateMetrics) ObserveResolve(d time.Duration) {
	if m == nil {
		return
	}
	m.ResolveDuration.Observe(d.Seconds())
}

// ObserveResolveFailure records a resolution treated as anonymous.
func (m *GateMetrics) ObserveResolveFailure() {
	if m == nil {
		return
	}
	m.ResolveFailures.Inc()
}
