package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lexgate",
	Short: "Lexgate - statute decision engine and audit ledger",
	Long: `Lexgate evaluates codified statutes against subject facts to produce
decisions, and records every decision in a tamper-evident, append-only
hash-chained audit ledger.

The lexgate command provides operator tooling:
  - Statute catalog validation (syntax, schema, relation cycles)
  - Ledger chain integrity verification
  - Audit record queries with filtering
  - Regulatory exports in JSON and CSV`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
