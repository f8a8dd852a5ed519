package statute

import (
	"fmt"
	"sort"
)

// Set is an arena of statutes keyed by id. Relations between statutes
// (supersedes, delegates) are edges over ids, so cycle detection runs by
// index without following live references.
type Set struct {
	byID  map[string]*Statute
	order []string
}

// NewSet builds a set from the given statutes. Duplicate ids are rejected.
func NewSet(statutes []*Statute) (*Set, error) {
	s := &Set{byID: make(map[string]*Statute, len(statutes))}
	for _, st := range statutes {
		if st.ID == "" {
			return nil, fmt.Errorf("statute %q has empty id", st.Title)
		}
		if _, ok := s.byID[st.ID]; ok {
			return nil, fmt.Errorf("duplicate statute id %q", st.ID)
		}
		s.byID[st.ID] = st
		s.order = append(s.order, st.ID)
	}
	return s, nil
}

// Statute returns the statute with the given id.
func (s *Set) Statute(id string) (*Statute, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// All returns the statutes in insertion order.
func (s *Set) All() []*Statute {
	out := make([]*Statute, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of statutes in the set.
func (s *Set) Len() int { return len(s.byID) }

// CycleError reports a cycle in the supersedes/delegates relation graph.
type CycleError struct {
	// Path lists the statute ids along the cycle, ending at the repeated id.
	Path []string
}

// Error returns the error message.
func (e *CycleError) Error() string {
	return fmt.Sprintf("statute relation cycle: %v", e.Path)
}

// CheckAcyclic verifies that the directed graph formed by supersedes and
// delegates edges contains no cycle. It runs a depth-first search with
// recursion-stack cycle detection in O(V+E) and is intended for catalog load
// time. Edges to ids outside the set are ignored; the relation may reference
// a wider repository.
func (s *Set) CheckAcyclic() error {
	const (
		white = 0 // unvisited
		gray  = 1 // on the recursion stack
		black = 2 // finished
	)

	color := make(map[string]int, len(s.byID))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range s.edges(id) {
			if _, ok := s.byID[next]; !ok {
				continue
			}
			switch color[next] {
			case gray:
				// Found a back edge; slice the cycle out of the stack.
				start := 0
				for i, sid := range stack {
					if sid == next {
						start = i
						break
					}
				}
				path := append(append([]string{}, stack[start:]...), next)
				return &CycleError{Path: path}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	// Deterministic traversal order keeps reported cycles stable.
	ids := append([]string{}, s.order...)
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// edges returns the outgoing relation edges for a statute id.
func (s *Set) edges(id string) []string {
	st := s.byID[id]
	out := make([]string, 0, len(st.Supersedes)+len(st.Delegates))
	out = append(out, st.Supersedes...)
	for _, d := range st.Delegates {
		out = append(out, d.TargetID)
	}
	return out
}
