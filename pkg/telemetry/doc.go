// Package telemetry provides observability for Lexgate.
//
// # Components
//
//   - logging: slog setup (level, format) and decision-scoped context helpers
//   - metrics: Prometheus metrics for decisions and the audit ledger
//
// # Usage
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stdout)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	engine := engine.New(res, led, logger, &engine.Config{
//		Metrics: collector.Decision(),
//	})
//
// Metric recorders are nil-safe: components accept them optionally and a nil
// recorder is a no-op, so instrumentation never gates the decision path.
package telemetry
