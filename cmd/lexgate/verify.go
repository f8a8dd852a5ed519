package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/ledger"
)

var verifyFlags struct {
	from   int64
	to     int64
	format string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify ledger chain integrity",
	Long: `Recompute the hash chain over the audit ledger and report the first
record, if any, whose stored hash or link disagrees with recomputation.

Examples:
  # Verify the whole ledger named by the config file
  lexgate verify

  # Verify a specific database file
  lexgate verify --db /var/lib/lexgate/ledger.db

  # Verify a sequence window
  lexgate verify --from 1000 --to 2000`,
	RunE: verifyLedger,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&dbPath, "db", "", "sqlite ledger database path (overrides config)")
	verifyCmd.Flags().Int64Var(&verifyFlags.from, "from", 0, "first sequence to verify")
	verifyCmd.Flags().Int64Var(&verifyFlags.to, "to", -1, "last sequence to verify (-1 = tail)")
	verifyCmd.Flags().StringVar(&verifyFlags.format, "format", "text", "output format: text, json")
}

// VerifyResult is the verification outcome rendered to the operator.
type VerifyResult struct {
	Status       string `json:"status"`
	Checked      int64  `json:"checked"`
	TamperedSeq  int64  `json:"tampered_seq,omitempty"`
	Detail       string `json:"detail,omitempty"`
	DatabasePath string `json:"database_path,omitempty"`
}

func verifyLedger(cmd *cobra.Command, args []string) error {
	led, closeLedger, err := openLedger()
	if err != nil {
		return cli.NewCommandError("verify", err)
	}
	defer closeLedger()

	report, err := led.Verify(context.Background(), &ledger.VerifyRange{
		FromSeq: verifyFlags.from,
		ToSeq:   verifyFlags.to,
	})
	if err != nil {
		return cli.NewCommandError("verify", err)
	}

	result := VerifyResult{
		Status:  string(report.Status),
		Checked: report.Checked,
	}
	if report.Status == ledger.StatusTampered {
		result.TamperedSeq = report.TamperedIndex
		if report.Cause != nil {
			result.Detail = report.Cause.Error()
		}
	}

	if verifyFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, result); err != nil {
			return err
		}
	} else {
		fmt.Printf("Checked %d record(s)\n", result.Checked)
		if report.Status == ledger.StatusVerified {
			fmt.Println("✓ Chain verified")
		} else {
			fmt.Printf("✗ Tampering detected at seq %d\n", result.TamperedSeq)
			if result.Detail != "" {
				fmt.Printf("  %s\n", result.Detail)
			}
		}
	}

	if report.Status != ledger.StatusVerified {
		return cli.NewCommandError("verify", fmt.Errorf("chain integrity violated at seq %d", result.TamperedSeq))
	}
	return nil
}
