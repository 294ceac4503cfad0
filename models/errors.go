package models

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks caller-fixable input problems.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned both for missing records and for records outside the caller's scope.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers uniqueness violations and blocked deletions.
	ErrConflict = errors.New("conflict")
	// ErrDependency means a referenced record (owner, property, client) does not resolve.
	ErrDependency = errors.New("dependency not found")
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError enumerates every violation found in a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Fields returns the names of the offending fields in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

// kindError carries a public message while unwrapping to one of the sentinels.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFound builds the single not-found shape used for an entity, whether the
// record is absent or merely invisible to the caller.
func NotFound(entity string) error {
	return &kindError{kind: ErrNotFound, msg: entity + " not found"}
}

// Conflict wraps ErrConflict with a human readable reason.
func Conflict(reason string) error {
	return &kindError{kind: ErrConflict, msg: reason}
}

// MissingDependency reports an unresolved reference such as an unknown agent.
func MissingDependency(entity string) error {
	return &kindError{kind: ErrDependency, msg: entity + " not found"}
}

// Message is the caller-facing text of err with any wrapping context
// stripped. It is empty for errors outside the taxonomy.
func Message(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ErrValidation.Error()
	}
	var kerr *kindError
	if errors.As(err, &kerr) {
		return kerr.msg
	}
	return ""
}

// Kind classifies err into the public error taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrDependency):
		return "dependency"
	default:
		return "internal"
	}
}
