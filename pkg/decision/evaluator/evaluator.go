package evaluator

import (
	"log/slog"
	"time"

	"meridian-hq/lexgate/pkg/statute"
)

// CustomFunc evaluates a Custom condition. It returns the match result and
// whether the description was recognized; unrecognized descriptions fall back
// to false.
type CustomFunc func(description string, subject *statute.Subject) (matched, handled bool)

// Config configures an Evaluator.
type Config struct {
	// Clock supplies the evaluation wall clock for temporal conditions.
	// Defaults to time.Now.
	Clock func() time.Time

	// Custom handles Custom conditions. When nil, Custom conditions always
	// evaluate to false.
	Custom CustomFunc
}

// Evaluator evaluates condition trees against subjects. It is stateless and
// safe for concurrent use.
type Evaluator struct {
	logger *slog.Logger
	clock  func() time.Time
	custom CustomFunc
}

// New creates an evaluator.
func New(logger *slog.Logger, config *Config) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = &Config{}
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Evaluator{
		logger: logger,
		clock:  clock,
		custom: config.Custom,
	}
}

// Evaluate evaluates a condition against a subject. A nil condition always
// matches; a nil subject matches nothing that reads attributes.
func (e *Evaluator) Evaluate(condition *statute.Condition, subject *statute.Subject) bool {
	if condition == nil {
		return true
	}

	switch condition.Type {
	case statute.ConditionTypeAll:
		for _, child := range condition.Children {
			if !e.Evaluate(child, subject) {
				return false
			}
		}
		return true

	case statute.ConditionTypeAny:
		for _, child := range condition.Children {
			if e.Evaluate(child, subject) {
				return true
			}
		}
		return false

	case statute.ConditionTypeNot:
		if len(condition.Children) != 1 {
			e.logger.Debug("not condition requires exactly one child",
				"children", len(condition.Children))
			return false
		}
		return !e.Evaluate(condition.Children[0], subject)

	case statute.ConditionTypeComparison:
		return e.evalComparison(condition, subject)

	case statute.ConditionTypeBetween,
		statute.ConditionTypeInRange,
		statute.ConditionTypeNotInRange:
		return e.evalRange(condition, subject)

	case statute.ConditionTypeIn:
		return e.evalIn(condition, subject)

	case statute.ConditionTypeLike:
		return e.evalLike(condition, subject)

	case statute.ConditionTypeMatches:
		return e.evalMatches(condition, subject)

	case statute.ConditionTypeHasAttribute:
		if subject == nil {
			return false
		}
		_, ok := subject.Attribute(condition.Key)
		return ok

	case statute.ConditionTypeAttributeEquals:
		if subject == nil {
			return false
		}
		actual, ok := subject.Attribute(condition.Key)
		if !ok {
			return false
		}
		return valuesEqual(actual, condition.Value)

	case statute.ConditionTypeTemporal:
		return e.evalTemporal(condition, subject)

	case statute.ConditionTypeCustom:
		if e.custom != nil {
			if matched, handled := e.custom(condition.Description, subject); handled {
				return matched
			}
		}
		e.logger.Debug("custom condition without handler evaluates to false",
			"description", condition.Description)
		return false

	default:
		e.logger.Debug("unknown condition type evaluates to false",
			"type", condition.Type)
		return false
	}
}

// evalComparison evaluates field op value.
func (e *Evaluator) evalComparison(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}

	cmp, comparable := compareValues(actual, condition.Value)
	if !comparable {
		return false
	}
	return applyOperator(condition.Op, cmp)
}

// evalRange evaluates Between, InRange, and NotInRange.
func (e *Evaluator) evalRange(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}

	lowCmp, lowOK := compareValues(actual, condition.Min)
	highCmp, highOK := compareValues(actual, condition.Max)
	if !lowOK || !highOK {
		return false
	}

	aboveMin := lowCmp > 0 || (condition.InclusiveMin && lowCmp == 0)
	belowMax := highCmp < 0 || (condition.InclusiveMax && highCmp == 0)
	inRange := aboveMin && belowMax

	if condition.Type == statute.ConditionTypeNotInRange {
		return !inRange
	}
	return inRange
}

// evalIn evaluates set membership.
func (e *Evaluator) evalIn(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}
	for _, candidate := range condition.Values {
		if valuesEqual(actual, candidate) {
			return true
		}
	}
	return false
}

// evalLike evaluates glob/substring matching.
func (e *Evaluator) evalLike(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}
	return matchGlob(condition.Pattern, actual.AsString())
}

// evalMatches evaluates regular-expression matching.
func (e *Evaluator) evalMatches(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}

	re, err := compilePattern(condition.Pattern)
	if err != nil {
		e.logger.Debug("invalid regex pattern evaluates to false",
			"pattern", condition.Pattern, "error", err)
		return false
	}
	return re.MatchString(actual.AsString())
}

// evalTemporal evaluates a date comparison, resolving the CurrentDate
// sentinel to the evaluation clock.
func (e *Evaluator) evalTemporal(condition *statute.Condition, subject *statute.Subject) bool {
	actual, ok := attributeOf(subject, condition.Field)
	if !ok {
		return false
	}

	actualTime, ok := actual.AsDate()
	if !ok {
		return false
	}

	var operand time.Time
	if condition.Value.Kind == statute.KindCurrentDate {
		operand = e.clock()
	} else {
		operand, ok = condition.Value.AsDate()
		if !ok {
			return false
		}
	}

	var cmp int
	switch {
	case actualTime.Before(operand):
		cmp = -1
	case actualTime.After(operand):
		cmp = 1
	}
	return applyOperator(condition.Op, cmp)
}

// attributeOf reads a subject attribute, treating a nil subject as empty.
func attributeOf(subject *statute.Subject, field string) (statute.Value, bool) {
	if subject == nil {
		return statute.Value{}, false
	}
	return subject.Attribute(field)
}
