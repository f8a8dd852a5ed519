package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/ledger/export"
)

var exportFlags struct {
	format string
	output string
	pretty bool
	header bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit records",
	Long: `Export audit records to JSON or CSV for regulatory submission or
offline analysis. The query flags filter what is exported; hash-chain fields
are included so exported segments remain independently verifiable.

Examples:
  # Everything about one subject, as JSON
  lexgate export --subject citizen-9 --format json --output citizen-9.json

  # A month of decisions, as CSV
  lexgate export --since 2026-01-01 --until 2026-02-01 --format csv --output january.csv`,
	RunE: exportLedger,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&dbPath, "db", "", "sqlite ledger database path (overrides config)")
	exportCmd.Flags().StringVar(&queryFlags.subject, "subject", "", "filter by subject id")
	exportCmd.Flags().StringVar(&queryFlags.statute, "statute", "", "filter by statute id")
	exportCmd.Flags().StringVar(&queryFlags.eventType, "event-type", "", "filter by event type")
	exportCmd.Flags().StringVar(&queryFlags.since, "since", "", "records at or after this time (RFC 3339 or YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&queryFlags.until, "until", "", "records at or before this time (RFC 3339 or YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "json", "export format: json, csv")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportFlags.pretty, "pretty", false, "indent JSON output")
	exportCmd.Flags().BoolVar(&exportFlags.header, "header", true, "include CSV header row")
}

func exportLedger(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	// Exports are complete projections; the query limit does not apply.
	q.Limit = 0
	q.Offset = 0
	q.Descending = false

	led, closeLedger, err := openLedger()
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	defer closeLedger()

	records, err := led.Query(context.Background(), q)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	out := os.Stdout
	if exportFlags.output != "" {
		f, err := os.Create(exportFlags.output)
		if err != nil {
			return cli.NewCommandError("export", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch exportFlags.format {
	case "json":
		exporter := &export.JSONExporter{Pretty: exportFlags.pretty}
		err = exporter.Export(context.Background(), records, out)
	case "csv":
		exporter := &export.CSVExporter{IncludeHeader: exportFlags.header}
		err = exporter.Export(context.Background(), records, out)
	default:
		err = fmt.Errorf("unknown format %q: use json or csv", exportFlags.format)
	}
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	if exportFlags.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d record(s) to %s\n", len(records), exportFlags.output)
	}
	return nil
}
