package evaluator

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"meridian-hq/lexgate/pkg/statute"
)

// compareValues compares a subject attribute against a condition operand.
// Both sides are compared numerically when both parse as numbers, as dates
// when both parse as dates, and otherwise as normalized strings. The result
// is -1, 0, or 1; comparable is false for operands that have no comparable
// form (such as an unresolved CurrentDate sentinel).
func compareValues(actual, operand statute.Value) (cmp int, comparable bool) {
	if operand.Kind == statute.KindCurrentDate {
		return 0, false
	}

	if an, aOK := actual.AsNumber(); aOK {
		if on, oOK := operand.AsNumber(); oOK {
			switch {
			case an < on:
				return -1, true
			case an > on:
				return 1, true
			default:
				return 0, true
			}
		}
	}

	if at, aOK := actual.AsDate(); aOK {
		if ot, oOK := operand.AsDate(); oOK {
			switch {
			case at.Before(ot):
				return -1, true
			case at.After(ot):
				return 1, true
			default:
				return 0, true
			}
		}
	}

	return strings.Compare(normalize(actual.AsString()), normalize(operand.AsString())), true
}

// valuesEqual tests equality with the same numeric-first coercion rules as
// compareValues.
func valuesEqual(actual, operand statute.Value) bool {
	cmp, ok := compareValues(actual, operand)
	return ok && cmp == 0
}

// applyOperator applies a comparison operator to a three-way compare result.
// Unknown operators evaluate to false.
func applyOperator(op statute.Operator, cmp int) bool {
	switch op {
	case statute.OpEqual:
		return cmp == 0
	case statute.OpNotEqual:
		return cmp != 0
	case statute.OpLessThan:
		return cmp < 0
	case statute.OpLessEqual:
		return cmp <= 0
	case statute.OpGreaterThan:
		return cmp > 0
	case statute.OpGreaterEqual:
		return cmp >= 0
	default:
		return false
	}
}

// normalize prepares a string for comparison: NFC normalization plus
// whitespace trimming.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// matchGlob matches s against a glob pattern where '*' matches any sequence
// and '?' matches a single rune. A pattern without wildcards matches as a
// substring, which keeps Like distinct from (and cheaper than) Matches.
func matchGlob(pattern, s string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(s, pattern)
	}

	p := []rune(pattern)
	t := []rune(s)

	// Iterative wildcard matcher with backtracking on the last '*'.
	var pi, ti int
	star := -1
	match := 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			star = pi
			match = ti
			pi++
		case star >= 0:
			pi = star + 1
			match++
			ti = match
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// regexCache memoizes compiled patterns; catalogs reuse a small number of
// expressions across many evaluations.
var regexCache sync.Map // map[string]*regexp.Regexp

// compilePattern compiles a regular expression with caching.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	regexCache.Store(pattern, re)
	return re, nil
}
