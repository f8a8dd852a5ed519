package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"meridian-hq/lexgate/pkg/ledger"
)

// CSVExporter exports audit records to CSV format. Nested structures (actor,
// result, context) are flattened; the full result is carried as JSON in its
// own column so nothing is lost.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes audit records to the provided writer in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*ledger.AuditRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return ledger.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		row, err := recordToRow(record)
		if err != nil {
			return ledger.NewExportError("csv", len(records), err)
		}
		if err := writer.Write(row); err != nil {
			return ledger.NewExportError("csv", len(records), err)
		}
	}
	return nil
}

// ExportStream exports audit records from a channel in CSV format, writing
// rows as they arrive.
func (e *CSVExporter) ExportStream(ctx context.Context, recordsCh <-chan *ledger.AuditRecord, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return ledger.NewExportError("csv", 0, err)
		}
	}

	recordCount := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				return nil
			}
			row, err := recordToRow(record)
			if err != nil {
				return ledger.NewExportError("csv", recordCount, err)
			}
			if err := writer.Write(row); err != nil {
				return ledger.NewExportError("csv", recordCount, err)
			}
			recordCount++

			// Flush periodically so long-running exports make progress
			// visible to the consumer.
			if recordCount%100 == 0 {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return ledger.NewExportError("csv", recordCount, err)
				}
			}
		}
	}
}

func headerRow() []string {
	return []string{
		"seq",
		"id",
		"timestamp",
		"event_type",
		"actor_type",
		"actor_user_id",
		"actor_component",
		"statute_id",
		"subject_id",
		"result_kind",
		"effect_applied",
		"result_json",
		"context_json",
		"previous_hash",
		"record_hash",
	}
}

func recordToRow(record *ledger.AuditRecord) ([]string, error) {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return nil, err
	}

	contextJSON := ""
	if len(record.Context) > 0 {
		data, err := json.Marshal(record.Context)
		if err != nil {
			return nil, err
		}
		contextJSON = string(data)
	}

	return []string{
		strconv.FormatInt(record.Seq, 10),
		record.ID,
		record.Timestamp.UTC().Format(time.RFC3339Nano),
		string(record.EventType),
		string(record.Actor.Type),
		record.Actor.UserID,
		record.Actor.Component,
		record.StatuteID,
		record.SubjectID,
		string(record.Result.Kind),
		record.Result.EffectApplied,
		string(resultJSON),
		contextJSON,
		record.PreviousHash,
		record.RecordHash,
	}, nil
}
