package statute

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind represents the type of an attribute or literal value.
type ValueKind string

const (
	KindNumber  ValueKind = "number"
	KindString  ValueKind = "string"
	KindBoolean ValueKind = "boolean"
	KindDate    ValueKind = "date"

	// KindCurrentDate is the sentinel resolved to the evaluation wall clock
	// by temporal comparisons. Re-evaluating the same condition later may
	// yield a different answer.
	KindCurrentDate ValueKind = "current_date"
)

// Value is a typed literal: a subject attribute or a condition operand.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
	Date time.Time
}

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Boolean returns a boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Date returns a date value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Date: t} }

// CurrentDate returns the evaluation-time sentinel.
func CurrentDate() Value { return Value{Kind: KindCurrentDate} }

// AsNumber reports the value as a float64 where possible. Strings that parse
// as numbers are treated numerically, matching the comparison rules used by
// the evaluator.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		n, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case KindBoolean:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsString renders the value as a string for string-mode comparison.
func (v Value) AsString() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Date.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

// AsDate reports the value as a time where possible. String values are
// parsed as RFC 3339 timestamps or plain dates (2006-01-02).
func (v Value) AsDate() (time.Time, bool) {
	switch v.Kind {
	case KindDate:
		return v.Date, true
	case KindString:
		if t, err := time.Parse(time.RFC3339, v.Str); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", v.Str); err == nil {
			return t, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// String implements fmt.Stringer for debugging and logs.
func (v Value) String() string {
	if v.Kind == KindCurrentDate {
		return "<current date>"
	}
	return fmt.Sprintf("%s(%s)", v.Kind, v.AsString())
}
