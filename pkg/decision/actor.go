package decision

import "fmt"

// ActorType discriminates the variants of an Actor.
type ActorType string

const (
	ActorSystem   ActorType = "system"
	ActorUser     ActorType = "user"
	ActorExternal ActorType = "external"
)

// Actor identifies the initiator of a decision or the authorizer of an
// override.
type Actor struct {
	Type ActorType `json:"type"`

	// Component names the automated component for System actors.
	Component string `json:"component,omitempty"`

	// UserID and Role identify a human for User actors.
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`

	// SystemID identifies the remote system for External actors.
	SystemID string `json:"system_id,omitempty"`
}

// SystemActor builds a System actor.
func SystemActor(component string) Actor {
	return Actor{Type: ActorSystem, Component: component}
}

// UserActor builds a User actor.
func UserActor(userID, role string) Actor {
	return Actor{Type: ActorUser, UserID: userID, Role: role}
}

// ExternalActor builds an External actor.
func ExternalActor(systemID string) Actor {
	return Actor{Type: ActorExternal, SystemID: systemID}
}

// IsUser reports whether the actor is a human user. Only human users may
// authorize overrides.
func (a Actor) IsUser() bool { return a.Type == ActorUser }

// String implements fmt.Stringer for logs.
func (a Actor) String() string {
	switch a.Type {
	case ActorSystem:
		return fmt.Sprintf("system/%s", a.Component)
	case ActorUser:
		return fmt.Sprintf("user/%s(%s)", a.UserID, a.Role)
	case ActorExternal:
		return fmt.Sprintf("external/%s", a.SystemID)
	default:
		return string(a.Type)
	}
}
