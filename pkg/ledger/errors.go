package ledger

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound indicates a lookup by id found no record.
var ErrRecordNotFound = errors.New("audit record not found")

// ErrLedgerHalted indicates appends are refused because tampering was
// detected under the TamperHalt policy.
var ErrLedgerHalted = errors.New("ledger halted after detected tamper")

// AppendConflictError indicates the caller's assumed tail went stale: another
// append committed first. The caller may re-read the tail and retry.
type AppendConflictError struct {
	AssumedTail string
	ActualTail  string
}

// Error returns the error message.
func (e *AppendConflictError) Error() string {
	return fmt.Sprintf("append conflict: assumed tail %q, actual tail %q",
		e.AssumedTail, e.ActualTail)
}

// IntegrityErrorKind discriminates ledger integrity failures.
type IntegrityErrorKind string

const (
	// TamperedRecord means a record's stored hash disagrees with the hash
	// recomputed from its contents.
	TamperedRecord IntegrityErrorKind = "tampered_record"

	// BrokenLink means a record's previous-hash does not match its
	// predecessor's record hash.
	BrokenLink IntegrityErrorKind = "broken_link"
)

// LedgerIntegrityError reports the first point at which the hash chain
// disagrees with recomputation. It bears on compliance integrity and must
// never be silently swallowed.
type LedgerIntegrityError struct {
	Kind  IntegrityErrorKind
	Index int64
}

// Error returns the error message.
func (e *LedgerIntegrityError) Error() string {
	switch e.Kind {
	case TamperedRecord:
		return fmt.Sprintf("ledger integrity: record %d hash does not match its contents", e.Index)
	case BrokenLink:
		return fmt.Sprintf("ledger integrity: record %d previous-hash link is broken", e.Index)
	default:
		return fmt.Sprintf("ledger integrity failure at record %d", e.Index)
	}
}

// StorageError wraps a storage backend failure.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger storage error [backend=%s, operation=%s]: %v",
		e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error { return e.Cause }

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// ExportError wraps a failure while exporting audit records.
type ExportError struct {
	Format  string
	Records int
	Cause   error
}

// Error returns the error message.
func (e *ExportError) Error() string {
	return fmt.Sprintf("ledger export error [format=%s, records=%d]: %v",
		e.Format, e.Records, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExportError) Unwrap() error { return e.Cause }

// NewExportError creates an ExportError.
func NewExportError(format string, records int, cause error) *ExportError {
	return &ExportError{Format: format, Records: records, Cause: cause}
}
