package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"meridian-hq/lexgate/pkg/config"
)

// Collector owns the Prometheus registry and all Lexgate metric subsystems.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	decision *DecisionMetrics
	ledger   *LedgerMetrics
}

// NewCollector creates a metrics collector. If registry is nil a fresh
// registry is used. When metrics are disabled the collector returns nil
// subsystems, which record methods treat as no-ops.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "meridian"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "lexgate"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	if cfg.Enabled {
		c.decision = NewDecisionMetrics(cfg, registry)
		c.ledger = NewLedgerMetrics(cfg, registry)
	}

	return c
}

// Decision returns the decision metrics subsystem, nil when disabled.
func (c *Collector) Decision() *DecisionMetrics {
	if c == nil {
		return nil
	}
	return c.decision
}

// Ledger returns the ledger metrics subsystem, nil when disabled.
func (c *Collector) Ledger() *LedgerMetrics {
	if c == nil {
		return nil
	}
	return c.ledger
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
