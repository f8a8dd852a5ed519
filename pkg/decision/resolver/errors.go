package resolver

import (
	"fmt"
	"strings"
)

// ConflictKind categorizes a StatuteConflictError.
type ConflictKind string

const (
	// ConflictCycle is a repeated statute id on the delegation path.
	ConflictCycle ConflictKind = "cycle"

	// ConflictDepth means the delegation chain exceeded the configured
	// maximum depth.
	ConflictDepth ConflictKind = "depth_exceeded"

	// ConflictAmbiguous means precedence could not pick a single winner.
	ConflictAmbiguous ConflictKind = "ambiguous"

	// ConflictMissingDelegate means a delegation target id could not be
	// resolved in the candidate universe or the wider repository.
	ConflictMissingDelegate ConflictKind = "missing_delegate"
)

// StatuteConflictError reports a configuration defect in the statute set:
// a delegation cycle, an unresolvable precedence tie, or a dangling
// delegation target. It is never caused by subject data.
type StatuteConflictError struct {
	Kind       ConflictKind
	StatuteIDs []string
}

// Error returns the error message.
func (e *StatuteConflictError) Error() string {
	ids := strings.Join(e.StatuteIDs, ", ")
	switch e.Kind {
	case ConflictCycle:
		return fmt.Sprintf("delegation cycle through statutes [%s]", ids)
	case ConflictDepth:
		return fmt.Sprintf("delegation depth exceeded at statutes [%s]", ids)
	case ConflictAmbiguous:
		return fmt.Sprintf("ambiguous precedence between statutes [%s]", ids)
	case ConflictMissingDelegate:
		return fmt.Sprintf("delegation target not found: [%s]", ids)
	default:
		return fmt.Sprintf("statute conflict [%s]", ids)
	}
}
