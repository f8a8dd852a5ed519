// Package statute defines the data model for codified legal rules.
//
// A Statute pairs an Effect (what happens when the statute applies) with an
// ordered list of precondition Conditions (when it applies), plus optional
// exceptions, priority, discretion criteria, and relations to other statutes
// (supersession, delegation, amendment, requirement).
//
// # Conditions
//
// Conditions form a recursive tree of predicates over a Subject's attributes.
// The tree is a value, not a graph of references, so it is acyclic by
// construction. Logical nodes (All/Any/Not) combine child conditions; leaf
// nodes compare a named attribute against literal values:
//
//	cond := statute.All(
//	    statute.Comparison("age", statute.OpGreaterEqual, statute.Number(18)),
//	    statute.Not(statute.HasAttribute("disqualified")),
//	)
//
// # Statute relations
//
// Supersedes and Delegates reference other statutes by id, never by pointer.
// A statute set is modeled as an arena keyed by id (see Set), and the
// combined supersedes/delegates relation must be acyclic. CheckAcyclic runs
// an O(V+E) depth-first search with recursion-stack cycle detection and is
// intended to run once at catalog load time, not per decision.
//
// # Subjects
//
// A Subject is an id plus a mapping of attribute names to typed values
// (number, string, boolean, date). Subjects are evaluation inputs only; the
// decision pipeline never mutates them.
package statute
