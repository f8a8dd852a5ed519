// Package resolver selects the winning statute among candidates for a given
// subject.
//
// Resolution proceeds in fixed stages:
//
//  1. Preconditions: every precondition must hold (implicit AND). Failing
//     candidates are dropped.
//  2. Exceptions: evaluated only for candidates that passed preconditions. A
//     candidate is dropped when any exception's conditions all hold.
//  3. Delegation: a surviving candidate whose delegation conditions hold
//     forwards resolution to the delegate statute, looked up by id. A
//     visited set and a configured maximum depth guarantee termination; a
//     repeated id or exceeded depth is a StatuteConflictError.
//  4. Conflict resolution among survivors with incompatible effects: higher
//     priority wins; on a tie, a statute that supersedes another beats the
//     superseded one; a remaining tie is ambiguous configuration and raises
//     StatuteConflictError rather than picking arbitrarily.
//
// Cycles in the supersedes/delegates relation are ideally caught by
// statute.Set.CheckAcyclic at catalog load time; when first detected here,
// the error is reported to the caller, which degrades it to a Void decision
// (see the engine package).
package resolver
