// Package catalog holds the query/filter/pagination engine shared by the
// book, patron and loan listings: per-view filter state, sort whitelists,
// page math and the domain error taxonomy.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups whose id does not resolve to a row. Wrapped
// errors carry the entity name and id; callers match with errors.Is.
var ErrNotFound = errors.New("record not found")

// NotFound wraps ErrNotFound with the entity and id that failed to resolve.
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// ValidationError reports recoverable input problems: empty required fields,
// unknown sort keys, malformed search directives. Fields maps a field name to
// a human-readable message so the caller can redisplay the offending record.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Fields))
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidation returns the ValidationError inside err, or nil.
func AsValidation(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// ConflictError reports a state conflict: checking out a book that is not IN,
// or returning a loan that is already closed.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflict creates a ConflictError.
func Conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
