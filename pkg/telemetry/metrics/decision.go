package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"meridian-hq/lexgate/pkg/config"
)

// DecisionMetrics tracks metrics for statute resolution and decisions.
//
// Metrics:
//   - lexgate_decisions_total: Total decisions by result kind
//   - lexgate_decision_duration_seconds: Resolution plus evaluation duration
//   - lexgate_statute_conflicts_total: Unresolvable conflicts by kind
//   - lexgate_overrides_total: Override attempts by outcome
type DecisionMetrics struct {
	decisionsTotal   *prometheus.CounterVec
	decisionDuration prometheus.Histogram
	conflictsTotal   *prometheus.CounterVec
	overridesTotal   *prometheus.CounterVec
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of decisions by result kind",
			},
			[]string{"kind"},
		),

		decisionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decision_duration_seconds",
				Help:      "Duration of statute resolution and evaluation in seconds",
				// Resolution is in-memory tree walking, microseconds to
				// low milliseconds.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		conflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "statute_conflicts_total",
				Help:      "Total number of unresolvable statute conflicts by kind",
			},
			[]string{"kind"},
		),

		overridesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "overrides_total",
				Help:      "Total number of override attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		dm.decisionsTotal,
		dm.decisionDuration,
		dm.conflictsTotal,
		dm.overridesTotal,
	)

	return dm
}

// RecordDecision records a completed decision and its duration.
func (m *DecisionMetrics) RecordDecision(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(kind).Inc()
	m.decisionDuration.Observe(duration.Seconds())
}

// RecordConflict records an unresolvable statute conflict.
func (m *DecisionMetrics) RecordConflict(kind string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

// RecordOverride records an override attempt. Outcome is "applied" or
// "unauthorized".
func (m *DecisionMetrics) RecordOverride(outcome string) {
	if m == nil {
		return
	}
	m.overridesTotal.WithLabelValues(outcome).Inc()
}
