package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/config"
)

func TestOpenLedger_InvalidConfigReportsConfigError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	bad := `catalog:
  path: statutes/
ledger:
  backend: postgres
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	prevCfg, prevDB := cfgFile, dbPath
	cfgFile, dbPath = path, ""
	t.Cleanup(func() { cfgFile, dbPath = prevCfg, prevDB })

	_, _, err := openLedger()
	if err == nil {
		t.Fatal("openLedger() accepted an invalid backend")
	}

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *cli.ConfigError", err)
	}
	if cfgErr.Path != path {
		t.Errorf("Path = %q, want %q", cfgErr.Path, path)
	}

	var valErr config.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("validation detail not reachable through ConfigError: %v", err)
	}
	found := false
	for _, fe := range valErr.Errors {
		if fe.Field == "ledger.backend" {
			found = true
		}
	}
	if !found {
		t.Errorf("validation errors %v do not name ledger.backend", valErr.Errors)
	}
}

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantNil bool
		wantErr bool
	}{
		{name: "empty", value: "", wantNil: true},
		{name: "rfc3339", value: "2026-08-31T12:00:00Z"},
		{name: "plain date", value: "2026-08-31"},
		{name: "garbage", value: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeFlag(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTimeFlag(%q) accepted", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimeFlag(%q) failed: %v", tt.value, err)
			}
			if tt.wantNil != (got == nil) {
				t.Errorf("parseTimeFlag(%q) = %v, want nil=%v", tt.value, got, tt.wantNil)
			}
		})
	}
}
