package main

import (
	"fmt"
	"os"
	"time"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/config"
	"meridian-hq/lexgate/pkg/ledger"
	"meridian-hq/lexgate/pkg/ledger/storage"
)

// dbPath, when set, bypasses the config file and opens the sqlite ledger
// directly. Shared by the ledger-facing subcommands.
var dbPath string

// openLedger opens the audit ledger named by --db or the config file. The
// returned close function must be called when the command finishes.
func openLedger() (*ledger.Ledger, func(), error) {
	sqliteCfg := storage.DefaultSQLiteConfig()
	tamperPolicy := ledger.TamperContinue

	if dbPath != "" {
		sqliteCfg.Path = dbPath
	} else {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, nil, cli.NewConfigError(cfgFile, err)
		}
		if cfg.Ledger.Backend != "sqlite" {
			return nil, nil, fmt.Errorf("ledger backend %q has no persistent store; this command requires sqlite", cfg.Ledger.Backend)
		}
		sqliteCfg.Path = cfg.Ledger.SQLite.Path
		if cfg.Ledger.SQLite.BusyTimeout > 0 {
			sqliteCfg.BusyTimeout = cfg.Ledger.SQLite.BusyTimeout
		}
	}

	if _, err := os.Stat(sqliteCfg.Path); err != nil {
		return nil, nil, fmt.Errorf("ledger database %s: %w", sqliteCfg.Path, err)
	}

	store, err := storage.NewSQLiteStorage(sqliteCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger storage: %w", err)
	}

	// Operator tooling only reads and verifies; continue keeps a tampered
	// chain inspectable instead of halting it.
	led := ledger.New(store, nil, ledger.Config{TamperPolicy: tamperPolicy})
	return led, func() { _ = led.Close() }, nil
}

// parseTimeFlag parses an RFC 3339 timestamp or a plain date.
func parseTimeFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", value)
	}
	return &t, nil
}
