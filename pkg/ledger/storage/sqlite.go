package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"meridian-hq/lexgate/pkg/ledger"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "./lexgate-ledger.db",
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements ledger.Storage using SQLite. The chain order is
// the primary key order, so Append is a single insert and Tail is a single
// indexed lookup.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend. It initializes the
// schema, enables WAL mode, and drops a torn trailing record left by a crash
// mid-write.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "ledger.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "open", err)
	}

	// The sqlite driver serializes writes; a single connection avoids
	// lock contention between the pool's connections.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite ledger storage initialized", "path", config.Path)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return ledger.NewStorageError("sqlite", "enable_wal", err)
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return ledger.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return ledger.NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return ledger.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return ledger.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return ledger.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return s.repairTail()
}

// repairTail drops the newest record when its stored hash no longer matches
// its contents, which happens only when a crash tore the final write. A
// mismatch deeper in the chain is tampering and is left for Verify to report.
func (s *SQLiteStorage) repairTail() error {
	tail, err := s.Tail(context.Background())
	if err != nil {
		return err
	}
	if tail == nil {
		return nil
	}

	ok, err := ledger.VerifyRecordHash(tail)
	if err != nil || ok {
		return err
	}

	s.logger.Warn("dropping torn trailing record", "seq", tail.Seq, "record_id", tail.ID)
	if _, err := s.db.Exec("DELETE FROM audit_records WHERE seq = ?", tail.Seq); err != nil {
		return ledger.NewStorageError("sqlite", "repair_tail", err)
	}
	return nil
}

// Append persists a record at the end of the chain.
func (s *SQLiteStorage) Append(ctx context.Context, record *ledger.AuditRecord) error {
	actorJSON, err := json.Marshal(record.Actor)
	if err != nil {
		return ledger.NewStorageError("sqlite", "marshal_actor", err)
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return ledger.NewStorageError("sqlite", "marshal_result", err)
	}
	var contextJSON []byte
	if len(record.Context) > 0 {
		contextJSON, err = json.Marshal(record.Context)
		if err != nil {
			return ledger.NewStorageError("sqlite", "marshal_context", err)
		}
	}

	const query = `
		INSERT INTO audit_records (
			seq, id, timestamp_ns, event_type,
			actor_type, actor_user_id, actor,
			statute_id, subject_id, context, result,
			previous_hash, record_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		record.Seq,
		record.ID,
		record.Timestamp.UTC().UnixNano(),
		string(record.EventType),
		string(record.Actor.Type),
		nullable(record.Actor.UserID),
		string(actorJSON),
		nullable(record.StatuteID),
		nullable(record.SubjectID),
		nullableBytes(contextJSON),
		string(resultJSON),
		record.PreviousHash,
		record.RecordHash,
	)
	if err != nil {
		return ledger.NewStorageError("sqlite", "append", err)
	}
	return nil
}

// Tail returns the newest record, or nil when empty.
func (s *SQLiteStorage) Tail(ctx context.Context) (*ledger.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM audit_records ORDER BY seq DESC LIMIT 1")
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "tail", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return s.scanRow(rows)
}

// Get returns a record by id.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*ledger.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+" FROM audit_records WHERE id = ?", id)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, ledger.NewStorageError("sqlite", "get", err)
		}
		return nil, ledger.ErrRecordNotFound
	}
	return s.scanRow(rows)
}

// Range returns records with fromSeq <= Seq <= toSeq in ascending order.
// toSeq < 0 means "through the tail".
func (s *SQLiteStorage) Range(ctx context.Context, fromSeq, toSeq int64) ([]*ledger.AuditRecord, error) {
	query := selectColumns + " FROM audit_records WHERE seq >= ?"
	args := []any{fromSeq}
	if toSeq >= 0 {
		query += " AND seq <= ?"
		args = append(args, toSeq)
	}
	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "range", err)
	}
	defer rows.Close()

	return s.collectRows(rows)
}

// Query returns records matching the filters.
func (s *SQLiteStorage) Query(ctx context.Context, q *ledger.Query) ([]*ledger.AuditRecord, error) {
	whereClause, args := buildWhereClause(q)

	query := selectColumns + " FROM audit_records" + whereClause
	if q != nil && q.Descending {
		query += " ORDER BY seq DESC"
	} else {
		query += " ORDER BY seq ASC"
	}
	if q != nil && q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, q.Offset)
		}
	} else if q != nil && q.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	return s.collectRows(rows)
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records").Scan(&count)
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Checkpoint returns the current chain checkpoint.
func (s *SQLiteStorage) Checkpoint(ctx context.Context) (ledger.Checkpoint, error) {
	var cp ledger.Checkpoint
	err := s.db.QueryRowContext(ctx,
		"SELECT next_seq, anchor_hash FROM chain_checkpoint WHERE id = 1").
		Scan(&cp.NextSeq, &cp.AnchorHash)
	if err == sql.ErrNoRows {
		return ledger.Checkpoint{}, nil
	}
	if err != nil {
		return ledger.Checkpoint{}, ledger.NewStorageError("sqlite", "checkpoint", err)
	}
	return cp, nil
}

// PruneThrough removes records with Seq <= seq and anchors the checkpoint at
// the last removed record. The delete and the checkpoint update commit in
// one transaction so a crash cannot lose the anchor.
func (s *SQLiteStorage) PruneThrough(ctx context.Context, seq int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "prune_begin", err)
	}
	defer tx.Rollback()

	var lastSeq int64
	var lastHash string
	err = tx.QueryRowContext(ctx,
		"SELECT seq, record_hash FROM audit_records WHERE seq <= ? ORDER BY seq DESC LIMIT 1", seq).
		Scan(&lastSeq, &lastHash)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "prune_anchor", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM audit_records WHERE seq <= ?", seq)
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "prune_delete", err)
	}
	removed, _ := result.RowsAffected()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chain_checkpoint (id, next_seq, anchor_hash) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET next_seq = excluded.next_seq, anchor_hash = excluded.anchor_hash`,
		lastSeq+1, lastHash)
	if err != nil {
		return 0, ledger.NewStorageError("sqlite", "prune_checkpoint", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, ledger.NewStorageError("sqlite", "prune_commit", err)
	}
	return removed, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT
	seq, id, timestamp_ns, event_type, actor, statute_id, subject_id,
	context, result, previous_hash, record_hash`

// buildWhereClause builds a SQL WHERE clause from the set query filters.
func buildWhereClause(q *ledger.Query) (string, []any) {
	if q == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if q.SubjectID != "" {
		conditions = append(conditions, "subject_id = ?")
		args = append(args, q.SubjectID)
	}
	if q.StatuteID != "" {
		conditions = append(conditions, "statute_id = ?")
		args = append(args, q.StatuteID)
	}
	if q.EventType != "" {
		conditions = append(conditions, "event_type = ?")
		args = append(args, string(q.EventType))
	}
	if q.ActorType != "" {
		conditions = append(conditions, "actor_type = ?")
		args = append(args, string(q.ActorType))
	}
	if q.UserID != "" {
		conditions = append(conditions, "actor_user_id = ?")
		args = append(args, q.UserID)
	}
	if q.StartTime != nil {
		conditions = append(conditions, "timestamp_ns >= ?")
		args = append(args, q.StartTime.UTC().UnixNano())
	}
	if q.EndTime != nil {
		conditions = append(conditions, "timestamp_ns <= ?")
		args = append(args, q.EndTime.UTC().UnixNano())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// scanRow scans the current row into an AuditRecord.
func (s *SQLiteStorage) scanRow(rows *sql.Rows) (*ledger.AuditRecord, error) {
	var record ledger.AuditRecord
	var timestampNs int64
	var eventType, actorJSON, resultJSON string
	var statuteID, subjectID, contextJSON sql.NullString

	err := rows.Scan(
		&record.Seq,
		&record.ID,
		&timestampNs,
		&eventType,
		&actorJSON,
		&statuteID,
		&subjectID,
		&contextJSON,
		&resultJSON,
		&record.PreviousHash,
		&record.RecordHash,
	)
	if err != nil {
		return nil, ledger.NewStorageError("sqlite", "scan", err)
	}

	record.Timestamp = time.Unix(0, timestampNs).UTC()
	record.EventType = ledger.EventType(eventType)
	record.StatuteID = statuteID.String
	record.SubjectID = subjectID.String

	if err := json.Unmarshal([]byte(actorJSON), &record.Actor); err != nil {
		return nil, ledger.NewStorageError("sqlite", "unmarshal_actor", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return nil, ledger.NewStorageError("sqlite", "unmarshal_result", err)
	}
	if contextJSON.Valid && contextJSON.String != "" {
		if err := json.Unmarshal([]byte(contextJSON.String), &record.Context); err != nil {
			return nil, ledger.NewStorageError("sqlite", "unmarshal_context", err)
		}
	}

	return &record, nil
}

func (s *SQLiteStorage) collectRows(rows *sql.Rows) ([]*ledger.AuditRecord, error) {
	var out []*ledger.AuditRecord
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, ledger.NewStorageError("sqlite", "rows", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
