package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/ledger"
	"meridian-hq/lexgate/pkg/ledger/storage"
)

func testLedger(t *testing.T, policy ledger.TamperPolicy) (*ledger.Ledger, *storage.MemoryStorage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	l := ledger.New(store, nil, ledger.Config{
		TamperPolicy: policy,
		Clock: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	})
	return l, store
}

func appendDecision(t *testing.T, l *ledger.Ledger, subjectID string) *ledger.AuditRecord {
	t.Helper()
	record, err := l.Append(context.Background(), ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     decision.SystemActor("engine"),
		StatuteID: "voting-rights",
		SubjectID: subjectID,
		Result:    decision.Deterministic("grant voting rights", nil),
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return record
}

// mutatingStorage rewrites one stored record on the way out of Range,
// simulating tampering with the persisted chain.
type mutatingStorage struct {
	ledger.Storage
	seq    int64
	mutate func(*ledger.AuditRecord)
}

func (m *mutatingStorage) Range(ctx context.Context, fromSeq, toSeq int64) ([]*ledger.AuditRecord, error) {
	records, err := m.Storage.Range(ctx, fromSeq, toSeq)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Seq == m.seq {
			m.mutate(record)
		}
	}
	return records, nil
}

func TestLedger_AppendChainsRecords(t *testing.T) {
	l, _ := testLedger(t, ledger.TamperHalt)

	first := appendDecision(t, l, "subject-1")
	second := appendDecision(t, l, "subject-2")
	third := appendDecision(t, l, "subject-3")

	if first.Seq != 0 || second.Seq != 1 || third.Seq != 2 {
		t.Errorf("seqs = %d, %d, %d, want 0, 1, 2", first.Seq, second.Seq, third.Seq)
	}
	if first.PreviousHash != "" {
		t.Errorf("genesis PreviousHash = %q, want empty", first.PreviousHash)
	}
	if second.PreviousHash != first.RecordHash {
		t.Error("second record does not link to first")
	}
	if third.PreviousHash != second.RecordHash {
		t.Error("third record does not link to second")
	}

	ok, err := ledger.VerifyRecordHash(third)
	if err != nil {
		t.Fatalf("VerifyRecordHash() error = %v", err)
	}
	if !ok {
		t.Error("appended record hash does not verify")
	}
}

func TestLedger_Verify_CleanChain(t *testing.T) {
	l, _ := testLedger(t, ledger.TamperHalt)
	for i := 0; i < 5; i++ {
		appendDecision(t, l, "subject-1")
	}

	report, err := l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusVerified {
		t.Errorf("Status = %q, want %q", report.Status, ledger.StatusVerified)
	}
	if report.Checked != 5 {
		t.Errorf("Checked = %d, want 5", report.Checked)
	}
}

func TestLedger_Verify_DetectsFieldMutation(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(r *ledger.AuditRecord)
	}{
		{"subject id", func(r *ledger.AuditRecord) { r.SubjectID = "someone-else" }},
		{"statute id", func(r *ledger.AuditRecord) { r.StatuteID = "tax-penalty" }},
		{"event type", func(r *ledger.AuditRecord) { r.EventType = ledger.EventHumanOverride }},
		{"timestamp", func(r *ledger.AuditRecord) { r.Timestamp = r.Timestamp.Add(time.Hour) }},
		{"result", func(r *ledger.AuditRecord) { r.Result = decision.Void("rewritten") }},
		{"actor", func(r *ledger.AuditRecord) { r.Actor = decision.UserActor("intruder", "admin") }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			l := ledger.New(store, nil, ledger.Config{})
			for i := 0; i < 4; i++ {
				if _, err := l.Append(context.Background(), ledger.Draft{
					EventType: ledger.EventAutomaticDecision,
					Actor:     decision.SystemActor("engine"),
					SubjectID: "subject-1",
					Result:    decision.Deterministic("grant voting rights", nil),
				}); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			tampered := ledger.New(&mutatingStorage{Storage: store, seq: 2, mutate: tt.mutate}, nil, ledger.Config{})
			report, err := tampered.Verify(context.Background(), nil)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if report.Status != ledger.StatusTampered {
				t.Fatalf("Status = %q, want %q", report.Status, ledger.StatusTampered)
			}
			if report.TamperedIndex != 2 {
				t.Errorf("TamperedIndex = %d, want 2", report.TamperedIndex)
			}

			var integrityErr *ledger.LedgerIntegrityError
			if !errors.As(report.Cause, &integrityErr) {
				t.Fatalf("Cause = %v, want LedgerIntegrityError", report.Cause)
			}
			if integrityErr.Kind != ledger.TamperedRecord {
				t.Errorf("Kind = %q, want %q", integrityErr.Kind, ledger.TamperedRecord)
			}
		})
	}
}

func TestLedger_Verify_DetectsRehashedRecord(t *testing.T) {
	store := storage.NewMemoryStorage()
	l := ledger.New(store, nil, ledger.Config{})
	for i := 0; i < 4; i++ {
		appendDecision(t, l, "subject-1")
	}

	// An attacker rewrites record 1 and recomputes its hash. The record
	// itself verifies, but record 2 no longer links to it.
	rehash := func(r *ledger.AuditRecord) {
		r.SubjectID = "someone-else"
		hash, err := ledger.ComputeRecordHash(r)
		if err != nil {
			t.Fatalf("ComputeRecordHash() error = %v", err)
		}
		r.RecordHash = hash
	}

	tampered := ledger.New(&mutatingStorage{Storage: store, seq: 1, mutate: rehash}, nil, ledger.Config{})
	report, err := tampered.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusTampered {
		t.Fatalf("Status = %q, want %q", report.Status, ledger.StatusTampered)
	}
	if report.TamperedIndex != 2 {
		t.Errorf("TamperedIndex = %d, want 2", report.TamperedIndex)
	}

	var integrityErr *ledger.LedgerIntegrityError
	if !errors.As(report.Cause, &integrityErr) {
		t.Fatalf("Cause = %v, want LedgerIntegrityError", report.Cause)
	}
	if integrityErr.Kind != ledger.BrokenLink {
		t.Errorf("Kind = %q, want %q", integrityErr.Kind, ledger.BrokenLink)
	}
}

func TestLedger_AppendConflict(t *testing.T) {
	l, _ := testLedger(t, ledger.TamperHalt)
	appendDecision(t, l, "subject-1")

	tail, err := l.Tail(context.Background())
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}

	draft := ledger.Draft{
		EventType:   ledger.EventAutomaticDecision,
		Actor:       decision.SystemActor("engine"),
		SubjectID:   "subject-2",
		Result:      decision.Deterministic("grant voting rights", nil),
		AssumedTail: &tail,
	}

	if _, err := l.Append(context.Background(), draft); err != nil {
		t.Fatalf("first optimistic Append() error = %v", err)
	}

	_, err = l.Append(context.Background(), draft)
	var conflict *ledger.AppendConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second optimistic Append() error = %v, want AppendConflictError", err)
	}
	if conflict.AssumedTail != tail {
		t.Errorf("AssumedTail = %q, want %q", conflict.AssumedTail, tail)
	}
}

func TestLedger_ConcurrentOptimisticAppends(t *testing.T) {
	l, _ := testLedger(t, ledger.TamperHalt)
	appendDecision(t, l, "subject-1")

	tail, err := l.Tail(context.Background())
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var succeeded, conflicted int

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Append(context.Background(), ledger.Draft{
				EventType:   ledger.EventAutomaticDecision,
				Actor:       decision.SystemActor("engine"),
				SubjectID:   "subject-2",
				Result:      decision.Deterministic("grant voting rights", nil),
				AssumedTail: &tail,
			})

			mu.Lock()
			defer mu.Unlock()
			var conflict *ledger.AppendConflictError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &conflict):
				conflicted++
			default:
				t.Errorf("Append() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if conflicted != writers-1 {
		t.Errorf("conflicted = %d, want %d", conflicted, writers-1)
	}

	report, err := l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusVerified {
		t.Errorf("Status after concurrent appends = %q, want verified", report.Status)
	}
}

func TestLedger_TamperHaltRefusesAppends(t *testing.T) {
	store := storage.NewMemoryStorage()
	l := ledger.New(&mutatingStorage{
		Storage: store,
		seq:     0,
		mutate:  func(r *ledger.AuditRecord) { r.SubjectID = "someone-else" },
	}, nil, ledger.Config{TamperPolicy: ledger.TamperHalt})

	if _, err := l.Append(context.Background(), ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     decision.SystemActor("engine"),
		SubjectID: "subject-1",
		Result:    decision.Deterministic("grant voting rights", nil),
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	report, err := l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusTampered {
		t.Fatalf("Status = %q, want tampered", report.Status)
	}
	if !l.Halted() {
		t.Error("Halted() = false after tamper under halt policy")
	}

	_, err = l.Append(context.Background(), ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     decision.SystemActor("engine"),
		Result:    decision.Void("should not land"),
	})
	if !errors.Is(err, ledger.ErrLedgerHalted) {
		t.Errorf("Append() after halt error = %v, want ErrLedgerHalted", err)
	}
}

func TestLedger_TamperQuarantineMarksRecords(t *testing.T) {
	store := storage.NewMemoryStorage()
	l := ledger.New(&mutatingStorage{
		Storage: store,
		seq:     0,
		mutate:  func(r *ledger.AuditRecord) { r.SubjectID = "someone-else" },
	}, nil, ledger.Config{TamperPolicy: ledger.TamperQuarantine})

	if _, err := l.Append(context.Background(), ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     decision.SystemActor("engine"),
		SubjectID: "subject-1",
		Result:    decision.Deterministic("grant voting rights", nil),
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := l.Verify(context.Background(), nil); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	record, err := l.Append(context.Background(), ledger.Draft{
		EventType: ledger.EventAutomaticDecision,
		Actor:     decision.SystemActor("engine"),
		SubjectID: "subject-2",
		Result:    decision.Deterministic("grant voting rights", nil),
	})
	if err != nil {
		t.Fatalf("Append() after quarantine error = %v", err)
	}
	if record.Context[ledger.QuarantineContextKey] != "true" {
		t.Errorf("Context[%q] = %q, want %q", ledger.QuarantineContextKey,
			record.Context[ledger.QuarantineContextKey], "true")
	}
}

func TestLedger_PruneKeepsChainVerifiable(t *testing.T) {
	l, store := testLedger(t, ledger.TamperHalt)
	for i := 0; i < 6; i++ {
		appendDecision(t, l, "subject-1")
	}

	removed, err := store.PruneThrough(context.Background(), 2)
	if err != nil {
		t.Fatalf("PruneThrough() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	report, err := l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() after prune error = %v", err)
	}
	if report.Status != ledger.StatusVerified {
		t.Errorf("Status after prune = %q, want verified", report.Status)
	}
	if report.Checked != 3 {
		t.Errorf("Checked = %d, want 3", report.Checked)
	}

	// New appends continue the original sequence and link cleanly.
	record := appendDecision(t, l, "subject-2")
	if record.Seq != 6 {
		t.Errorf("Seq after prune = %d, want 6", record.Seq)
	}

	report, err = l.Verify(context.Background(), nil)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if report.Status != ledger.StatusVerified {
		t.Errorf("Status = %q, want verified", report.Status)
	}
}

func TestLedger_QueryAndGet(t *testing.T) {
	l, _ := testLedger(t, ledger.TamperHalt)
	first := appendDecision(t, l, "subject-1")
	appendDecision(t, l, "subject-2")
	appendDecision(t, l, "subject-1")

	got, err := l.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.RecordHash != first.RecordHash {
		t.Error("Get() returned a different record")
	}

	if _, err := l.Get(context.Background(), "no-such-id"); !errors.Is(err, ledger.ErrRecordNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrRecordNotFound", err)
	}

	records, err := l.Query(context.Background(), &ledger.Query{SubjectID: "subject-1"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Query() returned %d records, want 2", len(records))
	}
	for _, record := range records {
		if record.SubjectID != "subject-1" {
			t.Errorf("SubjectID = %q, want subject-1", record.SubjectID)
		}
	}

	count, err := l.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}
