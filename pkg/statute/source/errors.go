package source

import (
	"fmt"
	"strings"
)

// LoadError reports a filesystem-level failure while loading a catalog.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Cause }

// SchemaError reports an invalid statute document: a field the schema does
// not accept or a value outside its domain.
type SchemaError struct {
	Path      string
	StatuteID string
	Message   string
}

// Error returns the error message.
func (e *SchemaError) Error() string {
	if e.StatuteID != "" {
		return fmt.Sprintf("%s: statute %q: %s", e.Path, e.StatuteID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ErrorList aggregates errors from loading multiple catalog files.
type ErrorList struct {
	Errors []error
}

// Add appends an error to the list.
func (l *ErrorList) Add(err error) { l.Errors = append(l.Errors, err) }

// HasErrors reports whether the list is non-empty.
func (l *ErrorList) HasErrors() bool { return len(l.Errors) > 0 }

// Error returns the combined error message.
func (l *ErrorList) Error() string {
	msgs := make([]string, 0, len(l.Errors))
	for _, err := range l.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d catalog error(s): %s", len(l.Errors), strings.Join(msgs, "; "))
}
