// Package retention archives and prunes the leading segment of the audit
// ledger. The ledger itself is append-only; retention is the one sanctioned
// removal path, and it preserves verifiability by exporting the segment
// before deletion and anchoring the retained suffix at the storage
// checkpoint. Pruning runs on demand or on a cron schedule.
package retention
