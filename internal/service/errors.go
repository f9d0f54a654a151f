package service

import (
	"errors"
	"sort"
	"strings"
)

// NonFieldErrors is the field key for errors that are not tied to one input field.
const NonFieldErrors = "non_field_errors"

// --- Error Definitions ---
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrExportUnavailable  = errors.New("export storage is not configured")
)

// User-facing messages.
const (
	msgMissingCredentials = "Must include email/username and password"
	msgPasswordMismatch   = "Passwords don't match"
	msgDuplicateUsername  = "A user with that username already exists."
	msgDuplicateEmail     = "user with this email already exists."
	msgWorkoutConflict    = "You already have a workout of this type on this date. Please choose a different date or type."
	msgWorkoutNotFound    = "Workout not found."
	msgRequired           = "This field is required."
)

// ValidationError carries per-field messages back to the client.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError holding a single message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// orNil returns nil when no field has been flagged.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
