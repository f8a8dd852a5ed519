package source

import (
	"fmt"
	"time"

	"meridian-hq/lexgate/pkg/statute"
)

// catalogDocument is the top-level YAML shape of a catalog file.
type catalogDocument struct {
	Version  string       `yaml:"version"`
	Statutes []statuteDoc `yaml:"statutes"`
	Includes []includeDoc `yaml:"includes,omitempty"`
	Metadata *metadataDoc `yaml:"metadata,omitempty"`
}

// includeDoc references another catalog file relative to the including file.
type includeDoc struct {
	Path string `yaml:"path"`
}

// metadataDoc carries informational catalog fields that do not affect
// evaluation.
type metadataDoc struct {
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Maintainer  string `yaml:"maintainer,omitempty"`
}

type statuteDoc struct {
	ID         string            `yaml:"id"`
	Title      string            `yaml:"title,omitempty"`
	Priority   int               `yaml:"priority,omitempty"`
	Discretion string            `yaml:"discretion,omitempty"`
	Effect     effectDoc         `yaml:"effect"`
	Scope      *scopeDoc         `yaml:"scope,omitempty"`
	Requires   []string          `yaml:"requires,omitempty"`
	Supersedes []string          `yaml:"supersedes,omitempty"`
	Defaults   map[string]string `yaml:"defaults,omitempty"`

	Preconditions []conditionDoc  `yaml:"preconditions,omitempty"`
	Exceptions    []exceptionDoc  `yaml:"exceptions,omitempty"`
	Delegates     []delegationDoc `yaml:"delegates,omitempty"`
	Amendments    []amendmentDoc  `yaml:"amendments,omitempty"`
}

type effectDoc struct {
	Type        string            `yaml:"type"`
	Description string            `yaml:"description,omitempty"`
	Parameters  map[string]string `yaml:"parameters,omitempty"`
}

type scopeDoc struct {
	EntityTypes []string `yaml:"entity_types,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type exceptionDoc struct {
	Description string         `yaml:"description,omitempty"`
	Conditions  []conditionDoc `yaml:"conditions"`
}

type delegationDoc struct {
	Target      string         `yaml:"target"`
	Description string         `yaml:"description,omitempty"`
	Conditions  []conditionDoc `yaml:"conditions,omitempty"`
}

type amendmentDoc struct {
	Target      string `yaml:"target"`
	Version     string `yaml:"version,omitempty"`
	Date        string `yaml:"date,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// conditionDoc is the recursive YAML shape of a condition node. Exactly one
// variant's fields should be set; Type selects which.
type conditionDoc struct {
	Type string `yaml:"type"`

	All []conditionDoc `yaml:"all,omitempty"`
	Any []conditionDoc `yaml:"any,omitempty"`
	Not *conditionDoc  `yaml:"not,omitempty"`

	Field string `yaml:"field,omitempty"`
	Op    string `yaml:"op,omitempty"`
	Value any    `yaml:"value,omitempty"`

	Min          any   `yaml:"min,omitempty"`
	Max          any   `yaml:"max,omitempty"`
	InclusiveMin *bool `yaml:"inclusive_min,omitempty"`
	InclusiveMax *bool `yaml:"inclusive_max,omitempty"`

	Values  []any  `yaml:"values,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Key     string `yaml:"key,omitempty"`

	Description string `yaml:"description,omitempty"`
}

var effectTypes = map[string]statute.EffectType{
	"grant":      statute.EffectGrant,
	"revoke":     statute.EffectRevoke,
	"obligation": statute.EffectObligation,
	"prohibit":   statute.EffectProhibit,
	"penalty":    statute.EffectPenalty,
}

var operators = map[string]statute.Operator{
	"==": statute.OpEqual,
	"eq": statute.OpEqual,
	"!=": statute.OpNotEqual,
	"ne": statute.OpNotEqual,
	"<":  statute.OpLessThan,
	"lt": statute.OpLessThan,
	">":  statute.OpGreaterThan,
	"gt": statute.OpGreaterThan,
	"<=": statute.OpLessEqual,
	"le": statute.OpLessEqual,
	">=": statute.OpGreaterEqual,
	"ge": statute.OpGreaterEqual,
}

// currentDateKeyword is the string literal resolved to the evaluation wall
// clock in temporal comparisons.
const currentDateKeyword = "current_date"

// toStatute converts a statute document into the domain type.
func (d statuteDoc) toStatute(path string) (*statute.Statute, error) {
	if d.ID == "" {
		return nil, &SchemaError{Path: path, Message: "statute missing id"}
	}

	effectType, ok := effectTypes[d.Effect.Type]
	if !ok {
		return nil, &SchemaError{
			Path: path, StatuteID: d.ID,
			Message: fmt.Sprintf("unknown effect type %q", d.Effect.Type),
		}
	}

	st := &statute.Statute{
		ID:    d.ID,
		Title: d.Title,
		Effect: statute.Effect{
			Type:        effectType,
			Description: d.Effect.Description,
			Parameters:  d.Effect.Parameters,
		},
		DiscretionLogic: d.Discretion,
		Priority:        d.Priority,
		Requires:        d.Requires,
		Supersedes:      d.Supersedes,
		Defaults:        d.Defaults,
	}

	if d.Scope != nil {
		st.Scope = &statute.Scope{
			EntityTypes: d.Scope.EntityTypes,
			Description: d.Scope.Description,
		}
	}

	var err error
	if st.Preconditions, err = toConditions(d.Preconditions, path, d.ID); err != nil {
		return nil, err
	}

	for _, exc := range d.Exceptions {
		conds, err := toConditions(exc.Conditions, path, d.ID)
		if err != nil {
			return nil, err
		}
		st.Exceptions = append(st.Exceptions, statute.Exception{
			Description: exc.Description,
			Conditions:  conds,
		})
	}

	for _, del := range d.Delegates {
		if del.Target == "" {
			return nil, &SchemaError{Path: path, StatuteID: d.ID, Message: "delegation missing target"}
		}
		conds, err := toConditions(del.Conditions, path, d.ID)
		if err != nil {
			return nil, err
		}
		st.Delegates = append(st.Delegates, statute.Delegation{
			TargetID:    del.Target,
			Description: del.Description,
			Conditions:  conds,
		})
	}

	for _, am := range d.Amendments {
		st.Amendments = append(st.Amendments, statute.Amendment{
			TargetID:    am.Target,
			Version:     am.Version,
			Date:        am.Date,
			Description: am.Description,
		})
	}

	return st, nil
}

func toConditions(docs []conditionDoc, path, statuteID string) ([]*statute.Condition, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	out := make([]*statute.Condition, 0, len(docs))
	for i := range docs {
		cond, err := docs[i].toCondition(path, statuteID)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

// toCondition converts one condition document. The Type field selects the
// variant; logical nodes recurse into their children.
func (d *conditionDoc) toCondition(path, statuteID string) (*statute.Condition, error) {
	fail := func(format string, args ...any) error {
		return &SchemaError{Path: path, StatuteID: statuteID, Message: fmt.Sprintf(format, args...)}
	}

	switch statute.ConditionType(d.Type) {
	case statute.ConditionTypeAll, statute.ConditionTypeAny:
		docs := d.All
		if statute.ConditionType(d.Type) == statute.ConditionTypeAny {
			docs = d.Any
		}
		if len(docs) == 0 {
			return nil, fail("%s condition has no children", d.Type)
		}
		children, err := toConditions(docs, path, statuteID)
		if err != nil {
			return nil, err
		}
		if statute.ConditionType(d.Type) == statute.ConditionTypeAny {
			return statute.Any(children...), nil
		}
		return statute.All(children...), nil

	case statute.ConditionTypeNot:
		if d.Not == nil {
			return nil, fail("not condition has no child")
		}
		child, err := d.Not.toCondition(path, statuteID)
		if err != nil {
			return nil, err
		}
		return statute.Not(child), nil

	case statute.ConditionTypeComparison, statute.ConditionTypeTemporal:
		if d.Field == "" {
			return nil, fail("%s condition missing field", d.Type)
		}
		op, ok := operators[d.Op]
		if !ok {
			return nil, fail("unknown operator %q", d.Op)
		}
		val, err := toValue(d.Value)
		if err != nil {
			return nil, fail("field %q: %v", d.Field, err)
		}
		if statute.ConditionType(d.Type) == statute.ConditionTypeTemporal {
			return statute.Temporal(d.Field, op, val), nil
		}
		return statute.Comparison(d.Field, op, val), nil

	case statute.ConditionTypeBetween:
		min, max, err := d.bounds()
		if err != nil {
			return nil, fail("field %q: %v", d.Field, err)
		}
		return statute.Between(d.Field, min, max), nil

	case statute.ConditionTypeInRange, statute.ConditionTypeNotInRange:
		min, max, err := d.bounds()
		if err != nil {
			return nil, fail("field %q: %v", d.Field, err)
		}
		// Unstated bounds are inclusive, matching between semantics.
		incMin, incMax := true, true
		if d.InclusiveMin != nil {
			incMin = *d.InclusiveMin
		}
		if d.InclusiveMax != nil {
			incMax = *d.InclusiveMax
		}
		if statute.ConditionType(d.Type) == statute.ConditionTypeNotInRange {
			return statute.NotInRange(d.Field, min, max, incMin, incMax), nil
		}
		return statute.InRange(d.Field, min, max, incMin, incMax), nil

	case statute.ConditionTypeIn:
		if len(d.Values) == 0 {
			return nil, fail("in condition for field %q has no values", d.Field)
		}
		vals := make([]statute.Value, 0, len(d.Values))
		for _, raw := range d.Values {
			val, err := toValue(raw)
			if err != nil {
				return nil, fail("field %q: %v", d.Field, err)
			}
			vals = append(vals, val)
		}
		return statute.In(d.Field, vals...), nil

	case statute.ConditionTypeLike:
		if d.Pattern == "" {
			return nil, fail("like condition for field %q has no pattern", d.Field)
		}
		return statute.Like(d.Field, d.Pattern), nil

	case statute.ConditionTypeMatches:
		if d.Pattern == "" {
			return nil, fail("matches condition for field %q has no pattern", d.Field)
		}
		return statute.Matches(d.Field, d.Pattern), nil

	case statute.ConditionTypeHasAttribute:
		if d.Key == "" {
			return nil, fail("has_attribute condition missing key")
		}
		return statute.HasAttribute(d.Key), nil

	case statute.ConditionTypeAttributeEquals:
		if d.Key == "" {
			return nil, fail("attribute_equals condition missing key")
		}
		val, err := toValue(d.Value)
		if err != nil {
			return nil, fail("key %q: %v", d.Key, err)
		}
		return statute.AttributeEquals(d.Key, val), nil

	case statute.ConditionTypeCustom:
		if d.Description == "" {
			return nil, fail("custom condition missing description")
		}
		return statute.Custom(d.Description), nil

	default:
		return nil, fail("unknown condition type %q", d.Type)
	}
}

func (d *conditionDoc) bounds() (statute.Value, statute.Value, error) {
	if d.Field == "" {
		return statute.Value{}, statute.Value{}, fmt.Errorf("missing field")
	}
	min, err := toValue(d.Min)
	if err != nil {
		return statute.Value{}, statute.Value{}, fmt.Errorf("min: %w", err)
	}
	max, err := toValue(d.Max)
	if err != nil {
		return statute.Value{}, statute.Value{}, fmt.Errorf("max: %w", err)
	}
	return min, max, nil
}

// toValue converts a YAML scalar into a typed value. The current_date string
// becomes the evaluation-time sentinel.
func toValue(raw any) (statute.Value, error) {
	switch v := raw.(type) {
	case nil:
		return statute.Value{}, fmt.Errorf("missing value")
	case bool:
		return statute.Boolean(v), nil
	case int:
		return statute.Number(float64(v)), nil
	case int64:
		return statute.Number(float64(v)), nil
	case float64:
		return statute.Number(v), nil
	case time.Time:
		return statute.Date(v), nil
	case string:
		if v == currentDateKeyword {
			return statute.CurrentDate(), nil
		}
		return statute.String(v), nil
	default:
		return statute.Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
