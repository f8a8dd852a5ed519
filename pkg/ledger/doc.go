// Package ledger implements the tamper-evident, append-only audit ledger of
// decision events.
//
// Every decision, discretionary review, and override is recorded exactly
// once as an AuditRecord. Records form a singly linked hash chain:
//
//	record[i].PreviousHash == record[i-1].RecordHash
//	record[0].PreviousHash == "" (or the retention anchor, see below)
//
// The chain, not wall-clock timestamps, is the authoritative order of
// events. Any post-hoc change to a stored record changes its recomputed
// hash and breaks the chain from that point forward, which Verify reports
// as the first disagreeing index.
//
// # Canonical encoding
//
// The record hash is computed over a canonical byte encoding of every field
// except RecordHash, concatenated with the raw bytes of the previous hash:
//
//	RecordHash = hex(SHA-256(canonical(record \ RecordHash) || prev))
//
// Canonical bytes are canonical JSON: object keys sorted lexicographically,
// strings NFC-normalized, null values stripped, timestamps rendered as
// RFC 3339 nanosecond UTC strings, and numbers restricted to integers
// (decision parameters are carried as strings). The encoding is fixed so
// independent implementations produce bit-identical hashes.
//
// # Concurrency
//
// Append is serialized per ledger instance behind a mutex and additionally
// supports optimistic concurrency: a caller may state the tail hash it
// observed, and the append is rejected with AppendConflictError when the
// actual tail moved. Verify and Query run concurrently with appends and
// observe a consistent snapshot.
//
// # Retention
//
// The retention subpackage archives and prunes a leading chain segment. The
// storage checkpoint then carries the hash of the last pruned record as the
// anchor, so the retained suffix still verifies end to end.
package ledger
