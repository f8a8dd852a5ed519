package evaluator

import (
	"testing"
	"time"

	"meridian-hq/lexgate/pkg/statute"
)

func testSubject() *statute.Subject {
	return statute.NewSubjectWithID("subject-1", map[string]statute.Value{
		"age":        statute.Number(20),
		"income":     statute.Number(60000),
		"name":       statute.String("Jordan Doe"),
		"region":     statute.String("north"),
		"registered": statute.Boolean(true),
		"zip":        statute.String("94110"),
		"birth_date": statute.Date(time.Date(2004, 3, 15, 0, 0, 0, 0, time.UTC)),
		"age_text":   statute.String("20"),
	})
}

// TestEvaluate_Comparison tests numeric-first comparison semantics.
func TestEvaluate_Comparison(t *testing.T) {
	e := New(nil, nil)
	subj := testSubject()

	tests := []struct {
		name string
		cond *statute.Condition
		want bool
	}{
		{"age >= 18", statute.Comparison("age", statute.OpGreaterEqual, statute.Number(18)), true},
		{"age < 18", statute.Comparison("age", statute.OpLessThan, statute.Number(18)), false},
		{"income <= 50000 fails", statute.Comparison("income", statute.OpLessEqual, statute.Number(50000)), false},
		{"string attr compares numerically", statute.Comparison("age_text", statute.OpGreaterThan, statute.Number(19)), true},
		{"numeric operand against numeric string", statute.Comparison("age", statute.OpEqual, statute.String("20")), true},
		{"string equality", statute.Comparison("region", statute.OpEqual, statute.String("north")), true},
		{"string equality trims whitespace", statute.Comparison("region", statute.OpEqual, statute.String("  north ")), true},
		{"string inequality", statute.Comparison("region", statute.OpNotEqual, statute.String("south")), true},
		{"lexicographic ordering", statute.Comparison("region", statute.OpLessThan, statute.String("south")), true},
		{"boolean equality", statute.Comparison("registered", statute.OpEqual, statute.Boolean(true)), true},
		{"missing attribute is false", statute.Comparison("height", statute.OpGreaterThan, statute.Number(0)), false},
		{"missing attribute not-equal is still false", statute.Comparison("height", statute.OpNotEqual, statute.Number(0)), false},
		{"unknown operator is false", &statute.Condition{
			Type: statute.ConditionTypeComparison, Field: "age",
			Op: statute.Operator("~="), Value: statute.Number(20),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.cond, subj); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvaluate_Logical tests And/Or/Not combinators and short-circuiting.
func TestEvaluate_Logical(t *testing.T) {
	e := New(nil, nil)
	subj := testSubject()

	adult := statute.Comparison("age", statute.OpGreaterEqual, statute.Number(18))
	poor := statute.Comparison("income", statute.OpLessEqual, statute.Number(50000))

	tests := []struct {
		name string
		cond *statute.Condition
		want bool
	}{
		{"all true", statute.All(adult), true},
		{"all with one false", statute.All(adult, poor), false},
		{"empty all is vacuous truth", statute.All(), true},
		{"any with one true", statute.Any(poor, adult), true},
		{"any all false", statute.Any(poor), false},
		{"empty any is false", statute.Any(), false},
		{"not false", statute.Not(poor), true},
		{"not true", statute.Not(adult), false},
		{"nested", statute.All(adult, statute.Not(poor)), true},
		{"malformed not is false", &statute.Condition{Type: statute.ConditionTypeNot}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.cond, subj); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvaluate_DeMorgan tests that Not(And(a,b)) == Or(Not(a),Not(b)) over a
// grid of leaf predicates and subjects.
func TestEvaluate_DeMorgan(t *testing.T) {
	e := New(nil, nil)

	leaves := []*statute.Condition{
		statute.Comparison("age", statute.OpGreaterEqual, statute.Number(18)),
		statute.Comparison("income", statute.OpLessEqual, statute.Number(50000)),
		statute.HasAttribute("registered"),
		statute.Like("zip", "94*"),
		statute.In("region", statute.String("north"), statute.String("east")),
		statute.Custom("case worker judgment"),
	}

	subjects := []*statute.Subject{
		testSubject(),
		statute.NewSubjectWithID("empty", nil),
		statute.NewSubjectWithID("minor", map[string]statute.Value{
			"age": statute.Number(12), "region": statute.String("west"),
		}),
	}

	for _, subj := range subjects {
		for i, a := range leaves {
			for j, b := range leaves {
				left := e.Evaluate(statute.Not(statute.All(a, b)), subj)
				right := e.Evaluate(statute.Any(statute.Not(a), statute.Not(b)), subj)
				if left != right {
					t.Errorf("De Morgan violated for subject %s, leaves %d/%d: Not(And)=%v Or(Not)=%v",
						subj.ID, i, j, left, right)
				}
			}
		}
	}
}

// TestEvaluate_Ranges tests Between, InRange, and NotInRange bound handling.
func TestEvaluate_Ranges(t *testing.T) {
	e := New(nil, nil)
	subj := testSubject()

	tests := []struct {
		name string
		cond *statute.Condition
		want bool
	}{
		{"between inclusive hit", statute.Between("age", statute.Number(18), statute.Number(20)), true},
		{"between lower bound", statute.Between("age", statute.Number(20), statute.Number(30)), true},
		{"between miss", statute.Between("age", statute.Number(21), statute.Number(30)), false},
		{"in_range exclusive max excludes", statute.InRange("age", statute.Number(10), statute.Number(20), true, false), false},
		{"in_range inclusive max includes", statute.InRange("age", statute.Number(10), statute.Number(20), true, true), true},
		{"in_range exclusive min excludes", statute.InRange("age", statute.Number(20), statute.Number(30), false, true), false},
		{"not_in_range inverts", statute.NotInRange("age", statute.Number(30), statute.Number(40), true, true), true},
		{"not_in_range inside is false", statute.NotInRange("age", statute.Number(18), statute.Number(25), true, true), false},
		{"not_in_range missing attribute stays false", statute.NotInRange("height", statute.Number(0), statute.Number(10), true, true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.cond, subj); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvaluate_Patterns tests Like globbing versus Matches regex semantics.
func TestEvaluate_Patterns(t *testing.T) {
	e := New(nil, nil)
	subj := testSubject()

	tests := []struct {
		name string
		cond *statute.Condition
		want bool
	}{
		{"like prefix glob", statute.Like("zip", "94*"), true},
		{"like question mark", statute.Like("zip", "94?10"), true},
		{"like substring without wildcards", statute.Like("name", "Doe"), true},
		{"like miss", statute.Like("zip", "95*"), false},
		{"like does not treat dot as regex", statute.Like("zip", "9411."), false},
		{"matches regex", statute.Matches("zip", `^94\d{3}$`), true},
		{"matches anchored miss", statute.Matches("zip", `^95`), false},
		{"matches invalid regex is false", statute.Matches("zip", `[`), false},
		{"in membership", statute.In("region", statute.String("south"), statute.String("north")), true},
		{"in miss", statute.In("region", statute.String("south")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.cond, subj); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvaluate_Temporal tests CurrentDate sentinel resolution against an
// injected clock.
func TestEvaluate_Temporal(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	e := New(nil, &Config{Clock: func() time.Time { return now }})
	subj := testSubject()

	tests := []struct {
		name string
		cond *statute.Condition
		want bool
	}{
		{"birth date before now", statute.Temporal("birth_date", statute.OpLessThan, statute.CurrentDate()), true},
		{"birth date after now is false", statute.Temporal("birth_date", statute.OpGreaterThan, statute.CurrentDate()), false},
		{"explicit date operand", statute.Temporal("birth_date", statute.OpEqual, statute.Date(time.Date(2004, 3, 15, 0, 0, 0, 0, time.UTC))), true},
		{"non-date attribute is false", statute.Temporal("age", statute.OpLessThan, statute.CurrentDate()), false},
		{"current date sentinel outside temporal is false", statute.Comparison("age", statute.OpEqual, statute.CurrentDate()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Evaluate(tt.cond, subj); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvaluate_Idempotent tests that repeated evaluation with a fixed clock
// yields identical results.
func TestEvaluate_Idempotent(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := New(nil, &Config{Clock: func() time.Time { return now }})
	subj := testSubject()

	cond := statute.All(
		statute.Comparison("age", statute.OpGreaterEqual, statute.Number(18)),
		statute.Temporal("birth_date", statute.OpLessThan, statute.CurrentDate()),
	)

	first := e.Evaluate(cond, subj)
	for i := 0; i < 100; i++ {
		if got := e.Evaluate(cond, subj); got != first {
			t.Fatalf("evaluation %d diverged: got %v, want %v", i, got, first)
		}
	}
}

// TestEvaluate_Custom tests the Custom condition extension point.
func TestEvaluate_Custom(t *testing.T) {
	subj := testSubject()
	cond := statute.Custom("hardship review")

	// Without a handler the condition is always false.
	if New(nil, nil).Evaluate(cond, subj) {
		t.Error("unhandled custom condition evaluated true")
	}

	e := New(nil, &Config{
		Custom: func(description string, _ *statute.Subject) (bool, bool) {
			return description == "hardship review", description == "hardship review"
		},
	})
	if !e.Evaluate(cond, subj) {
		t.Error("handled custom condition evaluated false")
	}
	if e.Evaluate(statute.Custom("something else"), subj) {
		t.Error("unrecognized description should stay false")
	}
}

// TestEvaluate_AttributeConditions tests HasAttribute and AttributeEquals.
func TestEvaluate_AttributeConditions(t *testing.T) {
	e := New(nil, nil)
	subj := testSubject()

	if !e.Evaluate(statute.HasAttribute("age"), subj) {
		t.Error("HasAttribute missed present attribute")
	}
	if e.Evaluate(statute.HasAttribute("height"), subj) {
		t.Error("HasAttribute matched absent attribute")
	}
	if !e.Evaluate(statute.AttributeEquals("region", statute.String("north")), subj) {
		t.Error("AttributeEquals missed equal attribute")
	}
	if e.Evaluate(statute.AttributeEquals("region", statute.String("south")), subj) {
		t.Error("AttributeEquals matched unequal attribute")
	}
	if e.Evaluate(statute.AttributeEquals("height", statute.Number(1)), subj) {
		t.Error("AttributeEquals matched absent attribute")
	}
}

// TestEvaluate_NilInputs tests the total-function contract on nil inputs.
func TestEvaluate_NilInputs(t *testing.T) {
	e := New(nil, nil)

	if !e.Evaluate(nil, testSubject()) {
		t.Error("nil condition should always match")
	}
	if e.Evaluate(statute.Comparison("age", statute.OpEqual, statute.Number(1)), nil) {
		t.Error("nil subject should match nothing attribute-based")
	}
	if !e.Evaluate(nil, nil) {
		t.Error("nil condition with nil subject should match")
	}
}
