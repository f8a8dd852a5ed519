// Package engine executes decisions: it resolves the applicable statute for
// a subject, produces the decision result, and records every event in the
// audit ledger.
//
// The engine is the only writer of decision events. Each call to Decide
// appends exactly one automatic-decision record whatever the outcome, so
// the ledger is a complete account of what the system did and why. Human
// actions enter through ResolveDiscretion and Override, which append their
// own event types; only user actors may override.
package engine
