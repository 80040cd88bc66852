// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input or an entity fails validation.
	// Field-level detail is carried by FieldError, whose Kind wraps it.
	ErrValidation = errors.New("validation failed")
)
