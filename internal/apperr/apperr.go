// Package apperr defines the typed errors handlers translate into HTTP responses.
package apperr

import (
	"errors"
	"net/http"
)

// Error carries a user-facing message and the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New creates an error with an explicit status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation is a 400 for missing or malformed input.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NotFound is a 404 for an absent fair, company, enrollment, booth or job.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Unauthenticated is a 401 for a missing or invalid credential.
func Unauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden is a 403 for an authenticated but not permitted caller.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// Conflict is a 400 for duplicate state such as an existing enrollment.
// The platform reports conflicts as bad requests, not 409s.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Dependency is a 500 for a store or downstream I/O failure. The raw
// store error stays server-side; only the message crosses the API.
func Dependency(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
