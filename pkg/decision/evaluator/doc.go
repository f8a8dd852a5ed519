// Package evaluator implements pure predicate evaluation of condition trees
// over a subject's attributes.
//
// Evaluate is a total function: it never panics and never returns an error.
// A condition that references a missing attribute, an unparseable value, or
// an unsupported operator/type combination evaluates to false. The default is
// closed-world and fail-safe: absence of evidence never grants eligibility.
//
// Logical combinators short-circuit. All stops at the first false child, Any
// stops at the first true child, and Not negates its single operand.
//
// Comparisons are numeric-first: when both the operand and the subject's
// attribute parse as numbers they compare numerically, otherwise both sides
// compare as NFC-normalized, whitespace-trimmed strings.
//
// Temporal comparisons resolve the CurrentDate sentinel to the evaluation
// wall clock at call time; re-evaluating the same condition later may
// differ. Tests inject a fixed clock through Config.Clock.
//
// An Evaluator holds no mutable state and is safe for concurrent use from
// multiple goroutines.
package evaluator
