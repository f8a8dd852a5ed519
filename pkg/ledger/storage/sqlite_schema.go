package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the ledger database schema.
// Sequence is the primary key so the chain order is the storage order.
const Schema = `
-- Audit records table
CREATE TABLE IF NOT EXISTS audit_records (
    seq INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,

    -- Nanoseconds since the Unix epoch, UTC
    timestamp_ns INTEGER NOT NULL,

    event_type TEXT NOT NULL,

    -- Actor fields split out for filtering; full actor kept as JSON
    actor_type TEXT NOT NULL,
    actor_user_id TEXT,
    actor TEXT NOT NULL,

    statute_id TEXT,
    subject_id TEXT,
    context TEXT,
    result TEXT NOT NULL,

    previous_hash TEXT NOT NULL,
    record_hash TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_records(subject_id);
CREATE INDEX IF NOT EXISTS idx_audit_statute ON audit_records(statute_id);
CREATE INDEX IF NOT EXISTS idx_audit_event_type ON audit_records(event_type);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp_ns);

-- Single-row retention checkpoint
CREATE TABLE IF NOT EXISTS chain_checkpoint (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    next_seq INTEGER NOT NULL,
    anchor_hash TEXT NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion returns the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version;`
