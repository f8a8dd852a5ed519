package decision

// ResultKind discriminates the variants of a decision result.
type ResultKind string

const (
	// KindDeterministic means a statute's effect was applied automatically.
	KindDeterministic ResultKind = "deterministic"

	// KindRequiresDiscretion means automation stopped and a human review is
	// pending. Terminal for the automated path.
	KindRequiresDiscretion ResultKind = "requires_discretion"

	// KindVoid means no effect was applied, either because no statute
	// matched or because the statute set is misconfigured.
	KindVoid ResultKind = "void"

	// KindOverridden wraps a prior result with a human correction.
	KindOverridden ResultKind = "overridden"
)

// Result is the outcome of a single decision event. Exactly one variant's
// fields are populated, selected by Kind.
type Result struct {
	Kind ResultKind `json:"kind"`

	// Deterministic
	EffectApplied string            `json:"effect_applied,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`

	// RequiresDiscretion
	Issue         string `json:"issue,omitempty"`
	NarrativeHint string `json:"narrative_hint,omitempty"`
	AssignedTo    string `json:"assigned_to,omitempty"`

	// Void
	Reason string `json:"reason,omitempty"`

	// Overridden. Original and New are held by value (deep copies); an
	// override never aliases or mutates the result it replaces.
	Original      *Result `json:"original,omitempty"`
	New           *Result `json:"new,omitempty"`
	Justification string  `json:"justification,omitempty"`
}

// Deterministic builds the automatic-application variant.
func Deterministic(effectApplied string, parameters map[string]string) Result {
	params := make(map[string]string, len(parameters))
	for k, v := range parameters {
		params[k] = v
	}
	return Result{Kind: KindDeterministic, EffectApplied: effectApplied, Parameters: params}
}

// RequiresDiscretion builds the human-review variant.
func RequiresDiscretion(issue string) Result {
	return Result{Kind: KindRequiresDiscretion, Issue: issue}
}

// Void builds the no-effect variant.
func Void(reason string) Result {
	return Result{Kind: KindVoid, Reason: reason}
}

// Overridden wraps a prior result with a correction. Both results are deep
// copied so later mutation of the inputs cannot rewrite history.
func Overridden(original, corrected Result, justification string) Result {
	orig := original.Clone()
	repl := corrected.Clone()
	return Result{
		Kind:          KindOverridden,
		Original:      &orig,
		New:           &repl,
		Justification: justification,
	}
}

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	out := r
	if r.Parameters != nil {
		out.Parameters = make(map[string]string, len(r.Parameters))
		for k, v := range r.Parameters {
			out.Parameters[k] = v
		}
	}
	if r.Original != nil {
		orig := r.Original.Clone()
		out.Original = &orig
	}
	if r.New != nil {
		repl := r.New.Clone()
		out.New = &repl
	}
	return out
}

// Terminal reports whether the result ends the automated path. All variants
// are terminal for automation; RequiresDiscretion additionally awaits an
// external human action recorded as a separate event.
func (r Result) Terminal() bool {
	return r.Kind == KindDeterministic || r.Kind == KindVoid || r.Kind == KindOverridden
}
