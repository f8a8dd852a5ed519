package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "ledger.backend").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateResolver(&cfg.Resolver)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError
	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "catalog.path", Message: "must not be empty"})
	}
	return errs
}

func validateResolver(cfg *ResolverConfig) []FieldError {
	var errs []FieldError
	if cfg.MaxDelegationDepth < 1 {
		errs = append(errs, FieldError{Field: "resolver.max_delegation_depth", Message: "must be at least 1"})
	}
	return errs
}

func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.backend",
			Message: fmt.Sprintf("must be one of [memory, sqlite], got %q", cfg.Backend),
		})
	}

	switch cfg.TamperPolicy {
	case "halt", "continue", "quarantine":
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.tamper_policy",
			Message: fmt.Sprintf("must be one of [halt, continue, quarantine], got %q", cfg.TamperPolicy),
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "ledger.sqlite.path", Message: "must not be empty"})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "ledger.sqlite.busy_timeout", Message: "must not be negative"})
		}
	}

	errs = append(errs, validateRetention(&cfg.Retention)...)
	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return errs
	}

	if cfg.MaxAge <= 0 && cfg.MaxRecords <= 0 {
		errs = append(errs, FieldError{
			Field:   "ledger.retention",
			Message: "at least one of max_age and max_records must be set when retention is enabled",
		})
	}
	if cfg.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "ledger.retention.max_age", Message: "must not be negative"})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{Field: "ledger.retention.max_records", Message: "must not be negative"})
	}
	if cfg.ArchiveDir == "" {
		errs = append(errs, FieldError{Field: "ledger.retention.archive_dir", Message: "must not be empty"})
	}

	switch cfg.ArchiveFormat {
	case "json", "csv":
	default:
		errs = append(errs, FieldError{
			Field:   "ledger.retention.archive_format",
			Message: fmt.Sprintf("must be one of [json, csv], got %q", cfg.ArchiveFormat),
		})
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "ledger.retention.schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of [debug, info, warn, error], got %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of [json, text], got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Port < 0 || cfg.Metrics.Port > 65535 {
		errs = append(errs, FieldError{Field: "telemetry.metrics.port", Message: "must be between 0 and 65535"})
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "must start with /"})
	}
	return errs
}
