package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
)

// Generic messages for errors that carry no field messages of their own.
const (
	MsgNotFound        = "Not found."
	MsgUnexpected      = "An unexpected error occurred."
	MsgInvalidBody     = "Malformed request body."
	MsgUnauthenticated = "Authentication credentials were not provided."
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Token errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotConfirmed):
		return http.StatusForbidden

	case errors.Is(err, service.ErrAccountNotFound):
		return http.StatusNotFound

	// Bad request errors; AlreadyExists wraps ErrValidation
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrInvalidCredential),
		errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, shared.ErrInvalidBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// ErrorFields returns the client-facing messages for err. Field-scoped
// errors keep their messages; everything else gets a generic detail.
func ErrorFields(err error, status int) map[string][]string {
	if fields, ok := domain.FieldMessages(err); ok {
		return fields
	}

	msg := MsgUnexpected
	switch {
	case errors.Is(err, shared.ErrInvalidBody):
		msg = MsgInvalidBody
	case status == http.StatusNotFound:
		msg = MsgNotFound
	case status < http.StatusInternalServerError && status >= http.StatusBadRequest:
		msg = http.StatusText(status)
	}
	return map[string][]string{shared.DetailField: {msg}}
}

// HandleAPIError renders err with the status MapErrorToStatusCode chooses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, ErrorFields(err, status), err)
}
