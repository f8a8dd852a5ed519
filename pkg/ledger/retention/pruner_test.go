package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/ledger"
	"meridian-hq/lexgate/pkg/ledger/storage"
)

func seedLedger(t *testing.T, store ledger.Storage, n int, start time.Time) {
	t.Helper()
	prevHash := ""
	for i := 0; i < n; i++ {
		record := &ledger.AuditRecord{
			ID:           fmt.Sprintf("rec-%d", i),
			Seq:          int64(i),
			Timestamp:    start.Add(time.Duration(i) * time.Hour),
			EventType:    ledger.EventAutomaticDecision,
			Actor:        decision.SystemActor("engine"),
			SubjectID:    "subject-1",
			Result:       decision.Deterministic("grant voting rights", nil),
			PreviousHash: prevHash,
		}
		hash, err := ledger.ComputeRecordHash(record)
		if err != nil {
			t.Fatalf("ComputeRecordHash() error = %v", err)
		}
		record.RecordHash = hash
		prevHash = hash
		if err := store.Append(context.Background(), record); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
}

func TestPruner_PruneByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedLedger(t, store, 6, start)

	now := start.Add(10 * time.Hour)
	pruner := NewPruner(store, &Config{
		MaxAge:        6 * time.Hour,
		ArchiveDir:    t.TempDir(),
		ArchiveFormat: "json",
		Clock:         func() time.Time { return now },
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	// Records at hours 0..3 are older than the 6h cutoff (now-6h = hour 4).
	if pruned != 4 {
		t.Errorf("pruned = %d, want 4", pruned)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	cp, err := store.Checkpoint(context.Background())
	if err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}
	if cp.NextSeq != 4 {
		t.Errorf("NextSeq = %d, want 4", cp.NextSeq)
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedLedger(t, store, 10, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	pruner := NewPruner(store, &Config{
		MaxRecords:    3,
		ArchiveDir:    t.TempDir(),
		ArchiveFormat: "json",
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 7 {
		t.Errorf("pruned = %d, want 7", pruned)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestPruner_NothingEligible(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedLedger(t, store, 3, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	pruner := NewPruner(store, &Config{
		MaxRecords:    100,
		ArchiveDir:    t.TempDir(),
		ArchiveFormat: "json",
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 0 {
		t.Errorf("pruned = %d, want 0", pruned)
	}
}

func TestPruner_ArchiveWrittenBeforeDelete(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedLedger(t, store, 5, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	archiveDir := t.TempDir()
	pruner := NewPruner(store, &Config{
		MaxRecords:    2,
		ArchiveDir:    archiveDir,
		ArchiveFormat: "json",
	})

	if _, err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("archive dir holds %d files, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(archiveDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var archived []*ledger.AuditRecord
	if err := json.Unmarshal(data, &archived); err != nil {
		t.Fatalf("archive does not parse as JSON: %v", err)
	}
	if len(archived) != 3 {
		t.Fatalf("archived %d records, want 3", len(archived))
	}

	// The archived segment must still verify against its own chain.
	for i, record := range archived {
		ok, err := ledger.VerifyRecordHash(record)
		if err != nil {
			t.Fatalf("VerifyRecordHash(%d) error = %v", i, err)
		}
		if !ok {
			t.Errorf("archived record %d no longer verifies", i)
		}
	}
}

func TestPruner_RetainedChainVerifiesAfterPrune(t *testing.T) {
	store := storage.NewMemoryStorage()
	l := ledger.New(store, nil, ledger.Config{})
	for i := 0; i < 5; i++ {
		if _, err := l.Append(context.Background(), ledger.Draft{
			EventType: ledger.EventAutomaticDecision,
			Actor:     decision.SystemActor("engine"),
			SubjectID: "subject-1",
			Result:    decision.Deterministic("grant voting rights", nil),
		}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	pruner := NewPruner(store, &Config{
		MaxRecords:    2,
		ArchiveDir:    t.TempDir(),
		ArchiveFormat: "json",
	})
	if _, err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	report, err := l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusVerified {
		t.Errorf("Status after prune = %q, want verified", report.Status)
	}
}

func TestPruner_NeverPrunesTail(t *testing.T) {
	store := storage.NewMemoryStorage()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedLedger(t, store, 3, start)

	// Everything is older than the cutoff; the tail must survive anyway.
	pruner := NewPruner(store, &Config{
		MaxAge:        time.Minute,
		ArchiveDir:    t.TempDir(),
		ArchiveFormat: "json",
		Clock:         func() time.Time { return start.Add(100 * time.Hour) },
	})

	pruned, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if pruned != 2 {
		t.Errorf("pruned = %d, want 2", pruned)
	}

	tail, err := store.Tail(context.Background())
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if tail == nil || tail.Seq != 2 {
		t.Errorf("Tail() = %+v, want seq 2 retained", tail)
	}
}
