package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldError collects human-readable messages per input field. Kind carries
// the error category so callers can match it with errors.Is while still
// rendering the individual messages.
type FieldError struct {
	Kind   error
	Fields map[string][]string
}

// NewFieldError returns an empty FieldError of the given kind. A nil kind
// defaults to ErrValidation.
func NewFieldError(kind error) *FieldError {
	if kind == nil {
		kind = ErrValidation
	}
	return &FieldError{Kind: kind, Fields: make(map[string][]string)}
}

// FieldErrorOf builds a FieldError holding a single message.
func FieldErrorOf(kind error, field, message string) *FieldError {
	fe := NewFieldError(kind)
	fe.Add(field, message)
	return fe
}

// Add appends messages to field, preserving order.
func (e *FieldError) Add(field string, messages ...string) {
	if len(messages) == 0 {
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], messages...)
}

// HasErrors reports whether any field has a message.
func (e *FieldError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, ", "))
}

// Unwrap exposes Kind to errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

// FieldMessages extracts the per-field messages from err, if it carries any.
func FieldMessages(err error) (map[string][]string, bool) {
	var fe *FieldError
	if errors.As(err, &fe) && fe.HasErrors() {
		return fe.Fields, true
	}
	return nil, false
}
