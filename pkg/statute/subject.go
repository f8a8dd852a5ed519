package statute

import (
	"github.com/google/uuid"
)

// Subject is the entity a decision is made about: an id plus a snapshot of
// typed attributes. Subjects are supplied per evaluation and never mutated by
// the decision pipeline.
type Subject struct {
	ID         string
	Attributes map[string]Value
}

// NewSubject creates a subject with a fresh UUID and the given attributes.
// The attribute map is copied.
func NewSubject(attrs map[string]Value) *Subject {
	return NewSubjectWithID(uuid.New().String(), attrs)
}

// NewSubjectWithID creates a subject with an explicit id. The attribute map
// is copied.
func NewSubjectWithID(id string, attrs map[string]Value) *Subject {
	copied := make(map[string]Value, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Subject{ID: id, Attributes: copied}
}

// Attribute returns the named attribute and whether it is present.
func (s *Subject) Attribute(name string) (Value, bool) {
	v, ok := s.Attributes[name]
	return v, ok
}
