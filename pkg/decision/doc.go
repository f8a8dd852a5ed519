// Package decision defines the result and actor types shared by the decision
// engine and the audit ledger.
//
// A Result is a closed tagged union with exactly one variant per decision
// event: Deterministic (a statute's effect applied automatically),
// RequiresDiscretion (a human must adjudicate), Void (no applicable statute
// or a configuration defect), or Overridden (a human correction wrapping a
// prior result by value). History is never edited, only extended: an
// override carries a deep copy of the result it replaces.
//
// An Actor identifies who initiated a decision or authorized an override:
// an automated system component, a human user, or an external system. Only
// User actors may authorize overrides.
package decision
