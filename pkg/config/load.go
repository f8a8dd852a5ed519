package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides. Variables follow the naming
// convention LEXGATE_SECTION_FIELD (e.g. LEXGATE_LEDGER_BACKEND) and always
// take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Catalog overrides
	if val := os.Getenv("LEXGATE_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}
	if val := os.Getenv("LEXGATE_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}

	// Resolver overrides
	if val := os.Getenv("LEXGATE_RESOLVER_MAX_DELEGATION_DEPTH"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Resolver.MaxDelegationDepth = i
		}
	}

	// Ledger overrides
	if val := os.Getenv("LEXGATE_LEDGER_BACKEND"); val != "" {
		cfg.Ledger.Backend = val
	}
	if val := os.Getenv("LEXGATE_LEDGER_TAMPER_POLICY"); val != "" {
		cfg.Ledger.TamperPolicy = val
	}
	if val := os.Getenv("LEXGATE_LEDGER_SQLITE_PATH"); val != "" {
		cfg.Ledger.SQLite.Path = val
	}
	if val := os.Getenv("LEXGATE_LEDGER_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.SQLite.BusyTimeout = d
		}
	}
	if val := os.Getenv("LEXGATE_LEDGER_RETENTION_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Ledger.Retention.Enabled = b
		}
	}
	if val := os.Getenv("LEXGATE_LEDGER_RETENTION_MAX_AGE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Ledger.Retention.MaxAge = d
		}
	}
	if val := os.Getenv("LEXGATE_LEDGER_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Ledger.Retention.MaxRecords = i
		}
	}
	if val := os.Getenv("LEXGATE_LEDGER_RETENTION_ARCHIVE_DIR"); val != "" {
		cfg.Ledger.Retention.ArchiveDir = val
	}
	if val := os.Getenv("LEXGATE_LEDGER_RETENTION_SCHEDULE"); val != "" {
		cfg.Ledger.Retention.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("LEXGATE_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("LEXGATE_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("LEXGATE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("LEXGATE_METRICS_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Telemetry.Metrics.Port = i
		}
	}
}
