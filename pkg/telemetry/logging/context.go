package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// DecisionIDKey is the context key for decision identifiers.
	DecisionIDKey contextKey = "decision_id"

	// SubjectIDKey is the context key for subject identifiers.
	SubjectIDKey contextKey = "subject_id"

	// StatuteIDKey is the context key for statute identifiers.
	StatuteIDKey contextKey = "statute_id"
)

// WithDecisionID adds a decision ID to the context.
func WithDecisionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, DecisionIDKey, id)
}

// GetDecisionID retrieves the decision ID from the context.
func GetDecisionID(ctx context.Context) string {
	if id, ok := ctx.Value(DecisionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithSubjectID adds a subject ID to the context.
func WithSubjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SubjectIDKey, id)
}

// GetSubjectID retrieves the subject ID from the context.
func GetSubjectID(ctx context.Context) string {
	if id, ok := ctx.Value(SubjectIDKey).(string); ok {
		return id
	}
	return ""
}

// WithStatuteID adds a statute ID to the context.
func WithStatuteID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, StatuteIDKey, id)
}

// GetStatuteID retrieves the statute ID from the context.
func GetStatuteID(ctx context.Context) string {
	if id, ok := ctx.Value(StatuteIDKey).(string); ok {
		return id
	}
	return ""
}
