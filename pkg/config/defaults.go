package config

import "time"

// Default values for configuration fields.
const (
	// Catalog defaults
	DefaultCatalogPath  = "./statutes.yaml"
	DefaultCatalogWatch = false

	// Resolver defaults
	DefaultMaxDelegationDepth = 8

	// Ledger defaults
	DefaultLedgerBackend      = "memory"
	DefaultLedgerTamperPolicy = "halt"
	DefaultSQLitePath         = "./lexgate-ledger.db"
	DefaultSQLiteBusyTimeout  = 5 * time.Second

	// Retention defaults
	DefaultRetentionEnabled       = false
	DefaultRetentionArchiveDir    = "./lexgate-archive"
	DefaultRetentionArchiveFormat = "json"
	DefaultRetentionSchedule      = "0 2 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "meridian"
	DefaultMetricsSubsystem = "lexgate"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}

	if cfg.Resolver.MaxDelegationDepth == 0 {
		cfg.Resolver.MaxDelegationDepth = DefaultMaxDelegationDepth
	}

	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = DefaultLedgerBackend
	}
	if cfg.Ledger.TamperPolicy == "" {
		cfg.Ledger.TamperPolicy = DefaultLedgerTamperPolicy
	}
	if cfg.Ledger.SQLite.Path == "" {
		cfg.Ledger.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Ledger.SQLite.BusyTimeout == 0 {
		cfg.Ledger.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Ledger.Retention.ArchiveDir == "" {
		cfg.Ledger.Retention.ArchiveDir = DefaultRetentionArchiveDir
	}
	if cfg.Ledger.Retention.ArchiveFormat == "" {
		cfg.Ledger.Retention.ArchiveFormat = DefaultRetentionArchiveFormat
	}
	if cfg.Ledger.Retention.Schedule == "" {
		cfg.Ledger.Retention.Schedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
