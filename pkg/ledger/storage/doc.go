// Package storage provides ledger.Storage backends.
//
// Two backends are available:
//
//   - MemoryStorage: in-memory, for tests and ephemeral deployments
//   - SQLiteStorage: durable single-file storage with WAL mode
//
// Both hold records in chain order and maintain the retention checkpoint
// that anchors the retained suffix after pruning.
package storage
