package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meridian-hq/lexgate/pkg/decision"
	"meridian-hq/lexgate/pkg/telemetry/metrics"
)

// Config contains ledger configuration.
type Config struct {
	// TamperPolicy controls behavior after Verify detects tampering.
	// Default: TamperHalt
	TamperPolicy TamperPolicy

	// Clock supplies record timestamps. Default: time.Now.
	Clock func() time.Time

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.LedgerMetrics
}

// Ledger is the append-only, hash-chained audit log. All appends are
// serialized through an internal mutex so the chain never forks.
type Ledger struct {
	storage Storage
	logger  *slog.Logger
	clock   func() time.Time
	policy  TamperPolicy
	metrics *metrics.LedgerMetrics

	mu          sync.Mutex
	halted      bool
	quarantined bool
}

// New creates a Ledger over the given storage backend.
func New(storage Storage, logger *slog.Logger, config Config) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.TamperPolicy == "" {
		config.TamperPolicy = TamperHalt
	}
	return &Ledger{
		storage: storage,
		logger:  logger.With("component", "ledger"),
		clock:   config.Clock,
		policy:  config.TamperPolicy,
		metrics: config.Metrics,
	}
}

// Append builds a record from the draft, links it to the current tail,
// hashes it, and persists it. Concurrent calls are serialized; when the
// draft carries an AssumedTail that went stale, Append returns an
// AppendConflictError instead of silently re-linking.
func (l *Ledger) Append(ctx context.Context, draft Draft) (*AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.halted {
		return nil, ErrLedgerHalted
	}

	prevHash, nextSeq, err := l.tailState(ctx)
	if err != nil {
		return nil, err
	}

	if draft.AssumedTail != nil && *draft.AssumedTail != prevHash {
		if l.metrics != nil {
			l.metrics.RecordAppendConflict()
		}
		return nil, &AppendConflictError{AssumedTail: *draft.AssumedTail, ActualTail: prevHash}
	}

	record := &AuditRecord{
		ID:           uuid.New().String(),
		Seq:          nextSeq,
		Timestamp:    l.clock().UTC(),
		EventType:    draft.EventType,
		Actor:        draft.Actor,
		StatuteID:    draft.StatuteID,
		SubjectID:    draft.SubjectID,
		Context:      copyContext(draft.Context),
		Result:       draft.Result.Clone(),
		PreviousHash: prevHash,
	}

	if l.quarantined && l.policy == TamperQuarantine {
		if record.Context == nil {
			record.Context = make(map[string]string, 1)
		}
		record.Context[QuarantineContextKey] = "true"
	}

	hash, err := ComputeRecordHash(record)
	if err != nil {
		return nil, err
	}
	record.RecordHash = hash

	if err := l.storage.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append audit record: %w", err)
	}

	if l.metrics != nil {
		l.metrics.RecordAppend(string(record.EventType))
		l.metrics.SetChainLength(record.Seq + 1)
	}

	l.logger.Debug("audit record appended",
		"record_id", record.ID,
		"seq", record.Seq,
		"event_type", record.EventType,
		"result_kind", record.Result.Kind,
	)

	return record.Clone(), nil
}

// tailState returns the hash the next record must link to and the sequence
// it must carry. An empty storage falls back to the retention checkpoint so
// a pruned ledger keeps its chain position.
func (l *Ledger) tailState(ctx context.Context) (string, int64, error) {
	tail, err := l.storage.Tail(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("read ledger tail: %w", err)
	}
	if tail != nil {
		return tail.RecordHash, tail.Seq + 1, nil
	}

	cp, err := l.storage.Checkpoint(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("read ledger checkpoint: %w", err)
	}
	return cp.AnchorHash, cp.NextSeq, nil
}

// Tail returns the newest record's hash, or the checkpoint anchor when the
// ledger holds no records. Callers use it as the AssumedTail for optimistic
// appends.
func (l *Ledger) Tail(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	hash, _, err := l.tailState(ctx)
	return hash, err
}

// Verify recomputes hashes over a sequence window and checks every
// previous-hash link. A nil rng verifies the whole retained chain. The first
// record of the window must link to its stored predecessor, or to the
// retention anchor when it is the oldest retained record.
//
// When tampering is found the configured TamperPolicy takes effect: halt
// refuses further appends, quarantine marks subsequent records, continue
// only reports.
func (l *Ledger) Verify(ctx context.Context, rng *VerifyRange) (*VerificationReport, error) {
	from, to := int64(0), int64(-1)
	if rng != nil {
		from, to = rng.FromSeq, rng.ToSeq
	}

	cp, err := l.storage.Checkpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger checkpoint: %w", err)
	}
	if from < cp.NextSeq && cp.AnchorHash != "" {
		from = cp.NextSeq
	}

	records, err := l.storage.Range(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("read ledger range: %w", err)
	}

	report := &VerificationReport{Status: StatusVerified}
	prevHash, err := l.expectedLink(ctx, from, cp)
	if err != nil {
		return nil, err
	}

	for i, record := range records {
		report.Checked++

		if record.PreviousHash != prevHash {
			// The very first record of a mid-chain window has no
			// known predecessor when expectedLink found none.
			if !(i == 0 && prevHash == "" && from > cp.NextSeq) {
				l.fail(report, &LedgerIntegrityError{Kind: BrokenLink, Index: record.Seq})
				break
			}
		}

		ok, err := VerifyRecordHash(record)
		if err != nil {
			return nil, err
		}
		if !ok {
			l.fail(report, &LedgerIntegrityError{Kind: TamperedRecord, Index: record.Seq})
			break
		}
		prevHash = record.RecordHash
	}

	if l.metrics != nil {
		l.metrics.RecordVerification(string(report.Status))
	}
	if report.Status == StatusTampered {
		l.logger.Error("ledger tamper detected",
			"tampered_seq", report.TamperedIndex,
			"policy", l.policy,
			"cause", report.Cause,
		)
	}
	return report, nil
}

// expectedLink returns the hash the record at seq `from` must carry as its
// previous-hash, or "" when no predecessor is known.
func (l *Ledger) expectedLink(ctx context.Context, from int64, cp Checkpoint) (string, error) {
	if from == cp.NextSeq {
		return cp.AnchorHash, nil
	}
	if from == 0 {
		return "", nil
	}
	prev, err := l.storage.Range(ctx, from-1, from-1)
	if err != nil {
		return "", fmt.Errorf("read ledger predecessor: %w", err)
	}
	if len(prev) == 0 {
		return "", nil
	}
	return prev[0].RecordHash, nil
}

func (l *Ledger) fail(report *VerificationReport, cause *LedgerIntegrityError) {
	report.Status = StatusTampered
	report.TamperedIndex = cause.Index
	report.Cause = cause

	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.policy {
	case TamperHalt:
		l.halted = true
	case TamperQuarantine:
		l.quarantined = true
	}
}

// Halted reports whether appends are refused after a detected tamper.
func (l *Ledger) Halted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.halted
}

// Get returns a record by id.
func (l *Ledger) Get(ctx context.Context, id string) (*AuditRecord, error) {
	return l.storage.Get(ctx, id)
}

// Query returns records matching the filters.
func (l *Ledger) Query(ctx context.Context, q *Query) ([]*AuditRecord, error) {
	return l.storage.Query(ctx, q)
}

// Count returns the number of retained records.
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	return l.storage.Count(ctx)
}

// Close releases the underlying storage.
func (l *Ledger) Close() error {
	return l.storage.Close()
}

func copyContext(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SystemVerifier returns the actor recorded for scheduled integrity checks.
func SystemVerifier() decision.Actor {
	return decision.SystemActor("ledger.verifier")
}
