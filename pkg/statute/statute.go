package statute

// EffectType categorizes the outcome a matching statute produces.
type EffectType string

const (
	EffectGrant      EffectType = "grant"
	EffectRevoke     EffectType = "revoke"
	EffectObligation EffectType = "obligation"
	EffectProhibit   EffectType = "prohibit"
	EffectPenalty    EffectType = "penalty"
)

// Effect is the outcome a statute produces when it applies.
type Effect struct {
	Type        EffectType
	Description string
	Parameters  map[string]string
}

// Same reports whether two effects are interchangeable: same type and
// description. Statutes producing the same effect never conflict.
func (e Effect) Same(other Effect) bool {
	return e.Type == other.Type && e.Description == other.Description
}

// Exception suppresses a statute's application when its conditions hold.
// Exceptions are evaluated after preconditions, never before.
type Exception struct {
	Conditions  []*Condition
	Description string
}

// Amendment records a change this statute makes to another statute.
type Amendment struct {
	TargetID    string
	Version     string
	Date        string
	Description string
}

// Delegation forwards resolution to another statute when its conditions hold.
type Delegation struct {
	TargetID    string
	Conditions  []*Condition
	Description string
}

// Scope restricts the entity types a statute covers. Scope filtering is the
// caller's responsibility; it is carried here as data only.
type Scope struct {
	EntityTypes []string
	Description string
}

// Statute is a codified rule: preconditions gating an effect, plus optional
// discretion, priority, and relations to other statutes. Statutes are
// immutable once loaded into an evaluation run.
type Statute struct {
	ID    string
	Title string

	Effect Effect

	// Preconditions gate applicability; all must hold (implicit AND), in
	// order.
	Preconditions []*Condition

	// DiscretionLogic, when set, forces human review instead of automatic
	// effect application. The text is the criterion handed to the reviewer.
	DiscretionLogic string

	// Priority breaks conflicts between statutes with incompatible effects;
	// higher wins. Zero means unset.
	Priority int

	Scope      *Scope
	Exceptions []Exception
	Amendments []Amendment
	Delegates  []Delegation

	// Requires lists statute ids that must be present in the repository for
	// this statute to be meaningful.
	Requires []string

	// Supersedes lists statute ids this statute explicitly overrides in
	// precedence.
	Supersedes []string

	// Defaults supplies fallback field values for downstream consumers.
	Defaults map[string]string
}

// HasDiscretion reports whether the statute requires human adjudication.
func (s *Statute) HasDiscretion() bool {
	return s.DiscretionLogic != ""
}

// SupersedesID reports whether this statute explicitly supersedes the given
// statute id.
func (s *Statute) SupersedesID(id string) bool {
	for _, sid := range s.Supersedes {
		if sid == id {
			return true
		}
	}
	return false
}
