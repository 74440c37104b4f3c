// Package apperr defines the error taxonomy shared by the service layers
// and its mapping onto HTTP responses at the handler boundary.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation marks a request with a missing or malformed field.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks an authenticated caller whose role does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFoundOrUnauthorized conflates "does not exist" with "exists but
	// is owned by another employee" so record existence never leaks.
	ErrNotFoundOrUnauthorized = errors.New("not found")
	// ErrUpstreamIdentity marks a failed identity-provider call. The
	// underlying cause stays in the logs, not in the response body.
	ErrUpstreamIdentity = errors.New("identity provider error")
	// ErrStore marks a generic persistence failure.
	ErrStore = errors.New("store error")
)

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFoundOrUnauthorized):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the terse user-visible message for an error. Wrapped
// detail is deliberately omitted for the 500-class errors.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamIdentity):
		return ErrUpstreamIdentity.Error()
	case errors.Is(err, ErrStore):
		return ErrStore.Error()
	default:
		return err.Error()
	}
}
