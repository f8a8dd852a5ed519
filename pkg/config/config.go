package config

import "time"

// Config is the root configuration structure for Lexgate. It contains all
// configuration sections for the statute catalog, resolution, the audit
// ledger, and telemetry.
type Config struct {
	// Catalog contains configuration for the statute catalog source
	// including file location and watch mode.
	Catalog CatalogConfig `yaml:"catalog"`

	// Resolver contains configuration for statute resolution.
	Resolver ResolverConfig `yaml:"resolver"`

	// Ledger contains configuration for the audit ledger including backend
	// selection, tamper policy, and retention settings.
	Ledger LedgerConfig `yaml:"ledger"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CatalogConfig contains configuration for the statute catalog source.
type CatalogConfig struct {
	// Path is the filesystem path of the YAML statute catalog.
	Path string `yaml:"path"`

	// Watch enables hot reload when the catalog file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// ResolverConfig contains configuration for statute resolution.
type ResolverConfig struct {
	// MaxDelegationDepth bounds how many delegation hops a single
	// resolution may follow before it fails as a conflict.
	// Default: 8
	MaxDelegationDepth int `yaml:"max_delegation_depth"`
}

// LedgerConfig contains configuration for the audit ledger.
type LedgerConfig struct {
	// Backend selects the storage backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// TamperPolicy controls behavior after verification detects tampering.
	// Options: "halt", "continue", "quarantine"
	// Default: "halt"
	TamperPolicy string `yaml:"tamper_policy"`

	// Retention contains archival pruning settings.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains settings for the sqlite ledger backend.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "./lexgate-ledger.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains archival pruning settings for the ledger.
// Records older than MaxAge, or beyond MaxRecords, are exported to the
// archive directory and then pruned from live storage.
type RetentionConfig struct {
	// Enabled turns scheduled retention on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// MaxAge prunes records older than this duration. Zero disables the
	// age criterion.
	MaxAge time.Duration `yaml:"max_age"`

	// MaxRecords caps the live record count. Zero disables the count
	// criterion.
	MaxRecords int64 `yaml:"max_records"`

	// ArchiveDir is where pruned segments are exported before removal.
	// Default: "./lexgate-archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveFormat is the export format for pruned segments.
	// Options: "json", "csv"
	// Default: "json"
	ArchiveFormat string `yaml:"archive_format"`

	// Schedule is a cron expression for the retention job.
	// Default: "0 2 * * *" (daily at 02:00)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Port is the port the metrics endpoint listens on (0 = disabled).
	// Default: 0
	Port int `yaml:"port"`

	// Namespace is the metric name prefix.
	// Default: "meridian"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "lexgate"
	Subsystem string `yaml:"subsystem"`
}
