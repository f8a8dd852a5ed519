package engine

import (
	"errors"
	"fmt"

	"meridian-hq/lexgate/pkg/decision"
)

// ErrNotDiscretionary indicates a discretion resolution referenced a record
// whose result does not await human review.
var ErrNotDiscretionary = errors.New("referenced record does not require discretion")

// UnauthorizedOverrideError indicates a non-user actor attempted an
// override. Overrides encode human accountability; system and external
// actors never get them.
type UnauthorizedOverrideError struct {
	Actor decision.Actor
}

// Error returns the error message.
func (e *UnauthorizedOverrideError) Error() string {
	return fmt.Sprintf("actor %s is not authorized to override decisions", e.Actor)
}
