package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"meridian-hq/lexgate/pkg/config"
)

// LedgerMetrics tracks metrics for the audit ledger.
//
// Metrics:
//   - lexgate_ledger_appends_total: Appended records by event type
//   - lexgate_ledger_append_conflicts_total: Optimistic append conflicts
//   - lexgate_ledger_verifications_total: Verification runs by status
//   - lexgate_ledger_chain_length: Current chain length including pruned records
type LedgerMetrics struct {
	appendsTotal       *prometheus.CounterVec
	appendConflicts    prometheus.Counter
	verificationsTotal *prometheus.CounterVec
	chainLength        prometheus.Gauge
}

// NewLedgerMetrics creates and registers ledger metrics with the provided
// registry.
func NewLedgerMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LedgerMetrics {
	lm := &LedgerMetrics{
		appendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_appends_total",
				Help:      "Total number of audit records appended by event type",
			},
			[]string{"event_type"},
		),

		appendConflicts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_append_conflicts_total",
				Help:      "Total number of appends rejected because the assumed tail went stale",
			},
		),

		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_verifications_total",
				Help:      "Total number of chain verification runs by status",
			},
			[]string{"status"},
		),

		chainLength: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "ledger_chain_length",
				Help:      "Current hash chain length including pruned records",
			},
		),
	}

	registry.MustRegister(
		lm.appendsTotal,
		lm.appendConflicts,
		lm.verificationsTotal,
		lm.chainLength,
	)

	return lm
}

// RecordAppend records an appended audit record.
func (m *LedgerMetrics) RecordAppend(eventType string) {
	if m == nil {
		return
	}
	m.appendsTotal.WithLabelValues(eventType).Inc()
}

// RecordAppendConflict records a rejected optimistic append.
func (m *LedgerMetrics) RecordAppendConflict() {
	if m == nil {
		return
	}
	m.appendConflicts.Inc()
}

// RecordVerification records a verification run. Status is "verified" or
// "tampered".
func (m *LedgerMetrics) RecordVerification(status string) {
	if m == nil {
		return
	}
	m.verificationsTotal.WithLabelValues(status).Inc()
}

// SetChainLength updates the chain length gauge.
func (m *LedgerMetrics) SetChainLength(length int64) {
	if m == nil {
		return
	}
	m.chainLength.Set(float64(length))
}
