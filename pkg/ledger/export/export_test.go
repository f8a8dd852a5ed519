package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/ledger"
)

func exportRecords(t *testing.T) []*ledger.AuditRecord {
	t.Helper()
	var records []*ledger.AuditRecord
	prevHash := ""
	for i := 0; i < 3; i++ {
		record := &ledger.AuditRecord{
			ID:           "rec-" + string(rune('a'+i)),
			Seq:          int64(i),
			Timestamp:    time.Date(2026, 3, 14, 9, 0, i, 0, time.UTC),
			EventType:    ledger.EventAutomaticDecision,
			Actor:        decision.SystemActor("engine"),
			StatuteID:    "voting-rights",
			SubjectID:    "subject-1",
			Result:       decision.Deterministic("grant voting rights", map[string]string{"tier": "1"}),
			PreviousHash: prevHash,
		}
		hash, err := ledger.ComputeRecordHash(record)
		if err != nil {
			t.Fatalf("ComputeRecordHash() error = %v", err)
		}
		record.RecordHash = hash
		prevHash = hash
		records = append(records, record)
	}
	return records
}

func TestJSONExporter_Export(t *testing.T) {
	records := exportRecords(t)

	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded []*ledger.AuditRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("decoded %d records, want 3", len(decoded))
	}

	// An archived segment must still verify; the export has to carry
	// every hashed field intact.
	for i, record := range decoded {
		ok, err := ledger.VerifyRecordHash(record)
		if err != nil {
			t.Fatalf("VerifyRecordHash(%d) error = %v", i, err)
		}
		if !ok {
			t.Errorf("archived record %d no longer verifies", i)
		}
	}
}

func TestJSONExporter_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONExporter(false).Export(context.Background(), nil, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}

func TestJSONExporter_ExportStream(t *testing.T) {
	records := exportRecords(t)

	recordsCh := make(chan *ledger.AuditRecord, len(records))
	for _, record := range records {
		recordsCh <- record
	}
	close(recordsCh)

	var buf bytes.Buffer
	if err := NewJSONExporter(false).ExportStream(context.Background(), recordsCh, &buf); err != nil {
		t.Fatalf("ExportStream() error = %v", err)
	}

	var decoded []*ledger.AuditRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("streamed JSON does not parse: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("decoded %d records, want 3", len(decoded))
	}
}

func TestCSVExporter_Export(t *testing.T) {
	records := exportRecords(t)

	var buf bytes.Buffer
	if err := NewCSVExporter(true).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if rows[0][0] != "seq" || rows[0][len(rows[0])-1] != "record_hash" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != string(ledger.EventAutomaticDecision) {
		t.Errorf("event_type column = %q", rows[1][3])
	}
	if !strings.Contains(rows[1][11], `"kind":"deterministic"`) {
		t.Errorf("result_json column = %q", rows[1][11])
	}
}

func TestCSVExporter_NoHeader(t *testing.T) {
	records := exportRecords(t)

	var buf bytes.Buffer
	if err := NewCSVExporter(false).Export(context.Background(), records, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3 without header", len(rows))
	}
}
