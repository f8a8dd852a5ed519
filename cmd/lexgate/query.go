package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"meridian-hq/lexgate/pkg/cli"
	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/ledger"
)

var queryFlags struct {
	subject   string
	statute   string
	eventType string
	actorType string
	user      string
	since     string
	until     string
	limit     int
	offset    int
	desc      bool
	format    string
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with filtering by subject, statute, event type,
actor, and time range.

Examples:
  # Decisions about one subject, newest first
  lexgate query --subject citizen-9 --desc --limit 20

  # All overrides by one user
  lexgate query --event-type human_override --user clerk-3

  # Records in a time window
  lexgate query --since 2026-01-01 --until 2026-02-01 --format json`,
	RunE: queryLedger,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&dbPath, "db", "", "sqlite ledger database path (overrides config)")
	queryCmd.Flags().StringVar(&queryFlags.subject, "subject", "", "filter by subject id")
	queryCmd.Flags().StringVar(&queryFlags.statute, "statute", "", "filter by statute id")
	queryCmd.Flags().StringVar(&queryFlags.eventType, "event-type", "", "filter by event type")
	queryCmd.Flags().StringVar(&queryFlags.actorType, "actor-type", "", "filter by actor type: system, user, external")
	queryCmd.Flags().StringVar(&queryFlags.user, "user", "", "filter by acting user id")
	queryCmd.Flags().StringVar(&queryFlags.since, "since", "", "records at or after this time (RFC 3339 or YYYY-MM-DD)")
	queryCmd.Flags().StringVar(&queryFlags.until, "until", "", "records at or before this time (RFC 3339 or YYYY-MM-DD)")
	queryCmd.Flags().IntVar(&queryFlags.limit, "limit", 50, "maximum records to return (0 = no limit)")
	queryCmd.Flags().IntVar(&queryFlags.offset, "offset", 0, "records to skip")
	queryCmd.Flags().BoolVar(&queryFlags.desc, "desc", false, "newest first")
	queryCmd.Flags().StringVar(&queryFlags.format, "format", "text", "output format: text, json")
}

// buildQuery translates the command flags into a ledger query.
func buildQuery() (*ledger.Query, error) {
	start, err := parseTimeFlag(queryFlags.since)
	if err != nil {
		return nil, err
	}
	end, err := parseTimeFlag(queryFlags.until)
	if err != nil {
		return nil, err
	}
	return &ledger.Query{
		SubjectID:  queryFlags.subject,
		StatuteID:  queryFlags.statute,
		EventType:  ledger.EventType(queryFlags.eventType),
		ActorType:  decision.ActorType(queryFlags.actorType),
		UserID:     queryFlags.user,
		StartTime:  start,
		EndTime:    end,
		Limit:      queryFlags.limit,
		Offset:     queryFlags.offset,
		Descending: queryFlags.desc,
	}, nil
}

func queryLedger(cmd *cobra.Command, args []string) error {
	q, err := buildQuery()
	if err != nil {
		return cli.NewCommandError("query", err)
	}

	led, closeLedger, err := openLedger()
	if err != nil {
		return cli.NewCommandError("query", err)
	}
	defer closeLedger()

	records, err := led.Query(context.Background(), q)
	if err != nil {
		return cli.NewCommandError("query", err)
	}

	if queryFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No records matched")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%6d  %s  %-21s  %-19s  %s\n",
			rec.Seq,
			rec.Timestamp.UTC().Format(time.RFC3339),
			rec.EventType,
			rec.Result.Kind,
			describeRecord(rec),
		)
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}

// describeRecord renders the one-line subject/statute/actor summary.
func describeRecord(rec *ledger.AuditRecord) string {
	out := ""
	if rec.SubjectID != "" {
		out += "subject=" + rec.SubjectID
	}
	if rec.StatuteID != "" {
		if out != "" {
			out += " "
		}
		out += "statute=" + rec.StatuteID
	}
	if out != "" {
		out += " "
	}
	return out + "actor=" + rec.Actor.String()
}
