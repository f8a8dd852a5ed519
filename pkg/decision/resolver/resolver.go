package resolver

import (
	"log/slog"
	"sort"

	"meridian-hq/lexgate/pkg/decision/evaluator"
	"meridian-hq/lexgate/pkg/statute"
)

// DefaultMaxDelegationDepth bounds delegation chains when the caller does
// not configure a limit.
const DefaultMaxDelegationDepth = 8

// Outcome is the result of resolution: either a single matched statute or no
// match.
type Outcome struct {
	Matched bool
	Statute *statute.Statute
}

// NoMatch is the empty outcome.
var NoMatch = Outcome{}

// Lookup resolves statute ids for delegation targets. statute.Set satisfies
// this interface; a wider repository may wrap several sets.
type Lookup interface {
	Statute(id string) (*statute.Statute, bool)
}

// Config configures a Resolver.
type Config struct {
	// MaxDelegationDepth bounds the delegation recursion. Zero selects
	// DefaultMaxDelegationDepth.
	MaxDelegationDepth int
}

// Resolver applies preconditions, exceptions, delegation, and precedence to
// pick the applicable statute. It is stateless between calls and safe for
// concurrent use.
type Resolver struct {
	eval     *evaluator.Evaluator
	lookup   Lookup
	maxDepth int
	logger   *slog.Logger
}

// New creates a resolver. The lookup may be nil, in which case delegation
// targets are resolved against the candidate slice of each Resolve call
// only.
func New(eval *evaluator.Evaluator, lookup Lookup, logger *slog.Logger, config *Config) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = &Config{}
	}
	depth := config.MaxDelegationDepth
	if depth <= 0 {
		depth = DefaultMaxDelegationDepth
	}
	return &Resolver{eval: eval, lookup: lookup, maxDepth: depth, logger: logger}
}

// Resolve picks the applicable statute among candidates for the subject.
// A StatuteConflictError signals a configuration defect (cycle, dangling
// delegate, unresolvable tie); it never depends on subject data alone.
func (r *Resolver) Resolve(candidates []*statute.Statute, subject *statute.Subject) (Outcome, error) {
	lookup := r.lookup
	if lookup == nil {
		lookup = sliceLookup(candidates)
	}

	var survivors []*statute.Statute
	seen := make(map[string]bool)

	for _, cand := range candidates {
		if !r.applies(cand, subject) {
			continue
		}

		resolved, err := r.followDelegation(cand, subject, lookup, map[string]bool{cand.ID: true}, 0)
		if err != nil {
			return NoMatch, err
		}

		if !seen[resolved.ID] {
			seen[resolved.ID] = true
			survivors = append(survivors, resolved)
		}
	}

	switch len(survivors) {
	case 0:
		return NoMatch, nil
	case 1:
		return Outcome{Matched: true, Statute: survivors[0]}, nil
	default:
		return r.resolveConflict(survivors)
	}
}

// applies evaluates preconditions and then exceptions for one statute.
// Exceptions are checked strictly after preconditions.
func (r *Resolver) applies(st *statute.Statute, subject *statute.Subject) bool {
	for _, cond := range st.Preconditions {
		if !r.eval.Evaluate(cond, subject) {
			r.logger.Debug("precondition failed", "statute", st.ID)
			return false
		}
	}

	for _, exc := range st.Exceptions {
		if len(exc.Conditions) == 0 {
			continue
		}
		if r.allHold(exc.Conditions, subject) {
			r.logger.Debug("exception suppresses statute",
				"statute", st.ID, "exception", exc.Description)
			return false
		}
	}

	return true
}

// allHold evaluates a condition list as an implicit AND.
func (r *Resolver) allHold(conds []*statute.Condition, subject *statute.Subject) bool {
	for _, cond := range conds {
		if !r.eval.Evaluate(cond, subject) {
			return false
		}
	}
	return true
}

// followDelegation walks delegation entries whose conditions hold. A
// delegate that itself fails preconditions or is suppressed by an exception
// does not apply, and resolution falls back to the delegating statute.
func (r *Resolver) followDelegation(st *statute.Statute, subject *statute.Subject, lookup Lookup, visited map[string]bool, depth int) (*statute.Statute, error) {
	for _, del := range st.Delegates {
		if !r.allHold(del.Conditions, subject) {
			continue
		}

		if depth+1 > r.maxDepth {
			return nil, &StatuteConflictError{
				Kind:       ConflictDepth,
				StatuteIDs: []string{st.ID, del.TargetID},
			}
		}
		if visited[del.TargetID] {
			return nil, &StatuteConflictError{
				Kind:       ConflictCycle,
				StatuteIDs: visitedIDs(visited, del.TargetID),
			}
		}

		target, ok := lookup.Statute(del.TargetID)
		if !ok {
			return nil, &StatuteConflictError{
				Kind:       ConflictMissingDelegate,
				StatuteIDs: []string{del.TargetID},
			}
		}

		if !r.applies(target, subject) {
			r.logger.Debug("delegate does not apply, falling back",
				"statute", st.ID, "delegate", target.ID)
			continue
		}

		visited[target.ID] = true
		r.logger.Debug("delegating resolution",
			"statute", st.ID, "delegate", target.ID, "depth", depth+1)
		return r.followDelegation(target, subject, lookup, visited, depth+1)
	}

	return st, nil
}

// resolveConflict applies precedence to multiple surviving statutes.
func (r *Resolver) resolveConflict(survivors []*statute.Statute) (Outcome, error) {
	// Statutes producing the same effect do not conflict; pick a
	// deterministic representative.
	if sameEffects(survivors) {
		winner := survivors[0]
		for _, st := range survivors[1:] {
			if st.Priority > winner.Priority || (st.Priority == winner.Priority && st.ID < winner.ID) {
				winner = st
			}
		}
		return Outcome{Matched: true, Statute: winner}, nil
	}

	// Higher priority wins outright.
	top := survivors[0].Priority
	for _, st := range survivors[1:] {
		if st.Priority > top {
			top = st.Priority
		}
	}
	var tied []*statute.Statute
	for _, st := range survivors {
		if st.Priority == top {
			tied = append(tied, st)
		}
	}
	if len(tied) == 1 {
		return Outcome{Matched: true, Statute: tied[0]}, nil
	}

	// Within the tie, drop statutes superseded by another member.
	var remaining []*statute.Statute
	for _, st := range tied {
		superseded := false
		for _, other := range tied {
			if other.ID != st.ID && other.SupersedesID(st.ID) {
				superseded = true
				break
			}
		}
		if !superseded {
			remaining = append(remaining, st)
		}
	}
	if len(remaining) == 1 {
		return Outcome{Matched: true, Statute: remaining[0]}, nil
	}

	ids := make([]string, 0, len(remaining))
	for _, st := range remaining {
		ids = append(ids, st.ID)
	}
	sort.Strings(ids)
	return NoMatch, &StatuteConflictError{Kind: ConflictAmbiguous, StatuteIDs: ids}
}

// sameEffects reports whether every survivor produces an interchangeable
// effect.
func sameEffects(statutes []*statute.Statute) bool {
	first := statutes[0].Effect
	for _, st := range statutes[1:] {
		if !first.Same(st.Effect) {
			return false
		}
	}
	return true
}

// sliceLookup adapts a candidate slice to the Lookup interface.
type sliceLookup []*statute.Statute

func (s sliceLookup) Statute(id string) (*statute.Statute, bool) {
	for _, st := range s {
		if st.ID == id {
			return st, true
		}
	}
	return nil, false
}

// visitedIDs renders the visited set plus the repeated id for error
// reporting.
func visitedIDs(visited map[string]bool, repeat string) []string {
	ids := make([]string, 0, len(visited)+1)
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return append(ids, repeat)
}
