package statute

// ConditionType represents the type of a condition node.
type ConditionType string

const (
	ConditionTypeAll             ConditionType = "all"              // AND of children
	ConditionTypeAny             ConditionType = "any"              // OR of children
	ConditionTypeNot             ConditionType = "not"              // NOT of single child
	ConditionTypeComparison      ConditionType = "comparison"       // field op value
	ConditionTypeBetween         ConditionType = "between"          // min <= field <= max
	ConditionTypeInRange         ConditionType = "in_range"         // range with explicit bounds
	ConditionTypeNotInRange      ConditionType = "not_in_range"     // negated range
	ConditionTypeIn              ConditionType = "in"               // field in value set
	ConditionTypeLike            ConditionType = "like"             // glob/substring match
	ConditionTypeMatches         ConditionType = "matches"          // regular expression match
	ConditionTypeHasAttribute    ConditionType = "has_attribute"    // attribute presence
	ConditionTypeAttributeEquals ConditionType = "attribute_equals" // attribute equality
	ConditionTypeTemporal        ConditionType = "temporal"         // date comparison
	ConditionTypeCustom          ConditionType = "custom"           // opaque extension point
)

// Operator represents a comparison operator.
type Operator string

const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLessThan     Operator = "<"
	OpGreaterThan  Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
)

// Condition is a node in a predicate tree evaluated against a Subject.
// The populated fields depend on Type; unused fields are zero.
//
// Custom conditions are an escape hatch for semantics the closed variant set
// cannot express. They evaluate to false unless the evaluator is configured
// with an extension that recognizes the description.
type Condition struct {
	Type ConditionType

	// Children holds operands for All/Any/Not. Not takes exactly one child.
	Children []*Condition

	// Field names the subject attribute for leaf predicates.
	Field string

	// Op and Value apply to Comparison and Temporal conditions.
	Op    Operator
	Value Value

	// Min/Max bound Between, InRange, and NotInRange conditions. Between is
	// inclusive on both ends; InRange/NotInRange honor the explicit flags.
	Min          Value
	Max          Value
	InclusiveMin bool
	InclusiveMax bool

	// Values holds the membership set for In conditions.
	Values []Value

	// Pattern holds the glob pattern (Like) or regular expression (Matches).
	Pattern string

	// Key names the attribute for HasAttribute/AttributeEquals conditions.
	Key string

	// Description identifies a Custom condition to a registered extension.
	Description string
}

// All returns an AND over the given conditions.
func All(children ...*Condition) *Condition {
	return &Condition{Type: ConditionTypeAll, Children: children}
}

// Any returns an OR over the given conditions.
func Any(children ...*Condition) *Condition {
	return &Condition{Type: ConditionTypeAny, Children: children}
}

// Not negates a single condition.
func Not(child *Condition) *Condition {
	return &Condition{Type: ConditionTypeNot, Children: []*Condition{child}}
}

// Comparison compares a subject attribute against a literal.
func Comparison(field string, op Operator, value Value) *Condition {
	return &Condition{Type: ConditionTypeComparison, Field: field, Op: op, Value: value}
}

// Between tests min <= field <= max, inclusive on both ends.
func Between(field string, min, max Value) *Condition {
	return &Condition{
		Type: ConditionTypeBetween, Field: field,
		Min: min, Max: max, InclusiveMin: true, InclusiveMax: true,
	}
}

// InRange tests a range with explicit bound inclusivity.
func InRange(field string, min, max Value, inclusiveMin, inclusiveMax bool) *Condition {
	return &Condition{
		Type: ConditionTypeInRange, Field: field,
		Min: min, Max: max, InclusiveMin: inclusiveMin, InclusiveMax: inclusiveMax,
	}
}

// NotInRange is the negation of InRange with the same bound semantics.
func NotInRange(field string, min, max Value, inclusiveMin, inclusiveMax bool) *Condition {
	return &Condition{
		Type: ConditionTypeNotInRange, Field: field,
		Min: min, Max: max, InclusiveMin: inclusiveMin, InclusiveMax: inclusiveMax,
	}
}

// In tests membership of a subject attribute in a literal set.
func In(field string, values ...Value) *Condition {
	return &Condition{Type: ConditionTypeIn, Field: field, Values: values}
}

// Like matches a glob pattern ('*' and '?' wildcards; a pattern without
// wildcards matches as a substring).
func Like(field, pattern string) *Condition {
	return &Condition{Type: ConditionTypeLike, Field: field, Pattern: pattern}
}

// Matches matches a regular expression.
func Matches(field, pattern string) *Condition {
	return &Condition{Type: ConditionTypeMatches, Field: field, Pattern: pattern}
}

// HasAttribute tests attribute presence.
func HasAttribute(key string) *Condition {
	return &Condition{Type: ConditionTypeHasAttribute, Key: key}
}

// AttributeEquals tests attribute equality.
func AttributeEquals(key string, value Value) *Condition {
	return &Condition{Type: ConditionTypeAttributeEquals, Key: key, Value: value}
}

// Temporal compares a date attribute against a date literal or the
// CurrentDate sentinel.
func Temporal(field string, op Operator, value Value) *Condition {
	return &Condition{Type: ConditionTypeTemporal, Field: field, Op: op, Value: value}
}

// Custom returns an opaque condition identified by description.
func Custom(description string) *Condition {
	return &Condition{Type: ConditionTypeCustom, Description: description}
}

// IsLogical returns true for All/Any/Not nodes.
func (c *Condition) IsLogical() bool {
	return c.Type == ConditionTypeAll || c.Type == ConditionTypeAny || c.Type == ConditionTypeNot
}
