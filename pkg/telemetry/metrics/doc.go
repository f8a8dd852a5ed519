// Package metrics provides Prometheus metrics for Lexgate.
//
// # Metrics Categories
//
//   - Decision Metrics: decision counts by result kind, resolution duration,
//     statute conflicts, override attempts
//   - Ledger Metrics: audit appends by event type, append conflicts,
//     verification outcomes, chain length
//
// # Usage
//
//	collector := metrics.NewCollector(cfg, nil)
//	collector.Decision().RecordDecision("deterministic", elapsed)
//	collector.Ledger().RecordAppend("automatic_decision")
//	http.Handle("/metrics", collector.Handler())
//
// All metric structs are nil-safe: recording on a nil receiver is a no-op,
// so components accept optional metrics without guarding every call site.
package metrics
