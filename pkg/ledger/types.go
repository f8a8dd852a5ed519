package ledger

import (
	"context"
	"time"

	"meridian-hq/lexgate/pkg/decision"
)

// EventType categorizes an audit record.
type EventType string

const (
	EventAutomaticDecision   EventType = "automatic_decision"
	EventDiscretionaryReview EventType = "discretionary_review"
	EventHumanOverride       EventType = "human_override"
	EventAppeal              EventType = "appeal"
	EventStatuteModified     EventType = "statute_modified"
	EventSimulationRun       EventType = "simulation_run"
)

// AuditRecord is one immutable entry in the hash chain. Records are created
// exactly once at append time and never mutated afterward.
type AuditRecord struct {
	ID        string            `json:"id"`
	Seq       int64             `json:"seq"`
	Timestamp time.Time         `json:"timestamp"`
	EventType EventType         `json:"event_type"`
	Actor     decision.Actor    `json:"actor"`
	StatuteID string            `json:"statute_id,omitempty"`
	SubjectID string            `json:"subject_id,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	Result    decision.Result   `json:"result"`

	// PreviousHash is the RecordHash of the preceding record, or the
	// retention anchor (empty for the genesis record of a pristine ledger).
	PreviousHash string `json:"previous_hash,omitempty"`

	// RecordHash covers every other field plus PreviousHash's raw bytes.
	RecordHash string `json:"record_hash"`
}

// Clone returns a deep copy of the record.
func (r *AuditRecord) Clone() *AuditRecord {
	out := *r
	if r.Context != nil {
		out.Context = make(map[string]string, len(r.Context))
		for k, v := range r.Context {
			out.Context[k] = v
		}
	}
	out.Result = r.Result.Clone()
	return &out
}

// Draft is the caller-supplied portion of a record to append. Identity,
// sequence, timestamp, and hashes are assigned by the ledger.
type Draft struct {
	EventType EventType
	Actor     decision.Actor
	StatuteID string
	SubjectID string
	Context   map[string]string
	Result    decision.Result

	// AssumedTail, when non-nil, enables the optimistic concurrency check:
	// it is the RecordHash the caller observed as the tail (empty string for
	// an empty ledger). The append fails with AppendConflictError when the
	// actual tail differs.
	AssumedTail *string
}

// TamperPolicy governs whether appends are permitted after Verify detects a
// tampered chain.
type TamperPolicy string

const (
	// TamperHalt refuses all further appends once tampering is detected.
	TamperHalt TamperPolicy = "halt"

	// TamperContinue keeps appending normally; detection is left to
	// operators watching verification reports.
	TamperContinue TamperPolicy = "continue"

	// TamperQuarantine keeps appending but marks every subsequent record's
	// context so downstream consumers can segregate post-detection events.
	TamperQuarantine TamperPolicy = "quarantine"
)

// QuarantineContextKey marks records appended after a detected tamper under
// the TamperQuarantine policy.
const QuarantineContextKey = "quarantined"

// VerificationStatus is the outcome of a Verify run.
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "verified"
	StatusTampered VerificationStatus = "tampered"
)

// VerificationReport describes the outcome of recomputing a chain range.
type VerificationReport struct {
	Status VerificationStatus

	// TamperedIndex is the sequence of the first record whose stored hash
	// or link disagrees with recomputation. Meaningful only when Status is
	// StatusTampered.
	TamperedIndex int64

	// Checked is the number of records recomputed.
	Checked int64

	// Cause carries the LedgerIntegrityError behind a tampered status.
	Cause error
}

// VerifyRange restricts Verify to a sequence window. Nil means the whole
// ledger; ToSeq < 0 means "through the tail".
type VerifyRange struct {
	FromSeq int64
	ToSeq   int64
}

// Query filters audit records. Zero-valued fields are ignored.
type Query struct {
	SubjectID string
	StatuteID string
	EventType EventType
	ActorType decision.ActorType
	UserID    string

	// StartTime and EndTime bound Timestamp, inclusive.
	StartTime *time.Time
	EndTime   *time.Time

	// Limit caps the result size (0 means the storage default); Offset
	// skips leading matches.
	Limit  int
	Offset int

	// Descending orders by sequence descending when true; the default
	// order is ascending chain order.
	Descending bool
}

// Checkpoint carries the storage state needed to start or verify a chain:
// the next sequence to assign when the ledger holds no records, and the
// anchor hash the first retained record must link to.
type Checkpoint struct {
	NextSeq    int64  `json:"next_seq"`
	AnchorHash string `json:"anchor_hash"`
}

// Storage persists audit records in chain order. Implementations must be
// safe for concurrent use; Append is the only mutating call on the hot path
// and must be atomic.
type Storage interface {
	// Append persists a fully built record. The caller (the Ledger)
	// guarantees Seq and hashes are consistent with the current tail.
	Append(ctx context.Context, record *AuditRecord) error

	// Tail returns the newest record, or nil when the ledger is empty.
	Tail(ctx context.Context) (*AuditRecord, error)

	// Get returns a record by id, or ErrRecordNotFound.
	Get(ctx context.Context, id string) (*AuditRecord, error)

	// Range returns records with FromSeq <= Seq <= ToSeq in ascending
	// order; ToSeq < 0 means "through the tail".
	Range(ctx context.Context, fromSeq, toSeq int64) ([]*AuditRecord, error)

	// Query returns records matching the filters.
	Query(ctx context.Context, q *Query) ([]*AuditRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Checkpoint returns the current chain checkpoint.
	Checkpoint(ctx context.Context) (Checkpoint, error)

	// PruneThrough removes all records with Seq <= seq and advances the
	// checkpoint anchor to the hash of the last removed record. Returns the
	// number of records removed. Used by retention only.
	PruneThrough(ctx context.Context, seq int64) (int64, error)

	// Close releases storage resources.
	Close() error
}
