package export

import (
	"context"
	"encoding/json"
	"io"

	"meridian-hq/lexgate/pkg/ledger"
)

// JSONExporter exports audit records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes audit records to the provided writer as a JSON array in
// chain order.
func (e *JSONExporter) Export(ctx context.Context, records []*ledger.AuditRecord, w io.Writer) error {
	if len(records) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return ledger.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return ledger.NewExportError("json", len(records), err)
	}
	return nil
}

// ExportStream exports audit records from a channel as a JSON array. Records
// are written as they arrive, so very large exports never hold the full set
// in memory.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *ledger.AuditRecord, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return ledger.NewExportError("json", 0, err)
	}

	first := true
	recordCount := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return ledger.NewExportError("json", recordCount, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return ledger.NewExportError("json", recordCount, err)
				}
			}
			first = false

			var data []byte
			var err error
			if e.Pretty {
				data, err = json.MarshalIndent(record, "", "  ")
			} else {
				data, err = json.Marshal(record)
			}
			if err != nil {
				return ledger.NewExportError("json", recordCount, err)
			}
			if _, err := w.Write(data); err != nil {
				return ledger.NewExportError("json", recordCount, err)
			}
			recordCount++
		}
	}
}
