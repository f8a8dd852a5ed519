package storage

import (
	"context"
	"sync"

	"meridian-hq/lexgate/pkg/ledger"
)

// MemoryStorage implements ledger.Storage with an in-memory slice held in
// chain order. Suitable for tests and for deployments that accept losing
// the audit trail on restart.
type MemoryStorage struct {
	mu         sync.RWMutex
	records    []*ledger.AuditRecord
	byID       map[string]*ledger.AuditRecord
	checkpoint ledger.Checkpoint
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID: make(map[string]*ledger.AuditRecord),
	}
}

// Append persists a record at the end of the chain.
func (s *MemoryStorage) Append(ctx context.Context, record *ledger.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := record.Clone()
	s.records = append(s.records, clone)
	s.byID[clone.ID] = clone
	return nil
}

// Tail returns the newest record, or nil when empty.
func (s *MemoryStorage) Tail(ctx context.Context) (*ledger.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, nil
	}
	return s.records[len(s.records)-1].Clone(), nil
}

// Get returns a record by id.
func (s *MemoryStorage) Get(ctx context.Context, id string) (*ledger.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, ledger.ErrRecordNotFound
	}
	return record.Clone(), nil
}

// Range returns records with fromSeq <= Seq <= toSeq in ascending order.
// toSeq < 0 means "through the tail".
func (s *MemoryStorage) Range(ctx context.Context, fromSeq, toSeq int64) ([]*ledger.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ledger.AuditRecord
	for _, record := range s.records {
		if record.Seq < fromSeq {
			continue
		}
		if toSeq >= 0 && record.Seq > toSeq {
			break
		}
		out = append(out, record.Clone())
	}
	return out, nil
}

// Query returns records matching the filters in chain order.
func (s *MemoryStorage) Query(ctx context.Context, q *ledger.Query) ([]*ledger.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*ledger.AuditRecord
	for _, record := range s.records {
		if matchesQuery(record, q) {
			matched = append(matched, record)
		}
	}

	if q.Descending {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := q.Offset
	if start > len(matched) {
		return []*ledger.AuditRecord{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	out := make([]*ledger.AuditRecord, 0, end-start)
	for _, record := range matched[start:end] {
		out = append(out, record.Clone())
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Checkpoint returns the current chain checkpoint.
func (s *MemoryStorage) Checkpoint(ctx context.Context) (ledger.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpoint, nil
}

// PruneThrough removes records with Seq <= seq and anchors the checkpoint at
// the last removed record.
func (s *MemoryStorage) PruneThrough(ctx context.Context, seq int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for len(s.records) > 0 && s.records[0].Seq <= seq {
		record := s.records[0]
		s.checkpoint = ledger.Checkpoint{
			NextSeq:    record.Seq + 1,
			AnchorHash: record.RecordHash,
		}
		delete(s.byID, record.ID)
		s.records = s.records[1:]
		removed++
	}
	return removed, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

// matchesQuery reports whether a record passes every set filter.
func matchesQuery(record *ledger.AuditRecord, q *ledger.Query) bool {
	if q == nil {
		return true
	}
	if q.SubjectID != "" && record.SubjectID != q.SubjectID {
		return false
	}
	if q.StatuteID != "" && record.StatuteID != q.StatuteID {
		return false
	}
	if q.EventType != "" && record.EventType != q.EventType {
		return false
	}
	if q.ActorType != "" && record.Actor.Type != q.ActorType {
		return false
	}
	if q.UserID != "" && record.Actor.UserID != q.UserID {
		return false
	}
	if q.StartTime != nil && record.Timestamp.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && record.Timestamp.After(*q.EndTime) {
		return false
	}
	return true
}
