// Package errors defines the domain error type shared by services and handlers.
package errors

import (
	stderrors "errors"
	"net/http"
)

// DomainError is a client-facing error with a stable code and HTTP status.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code so wrapped copies compare equal to the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *DomainError) WithMessage(msg string) *DomainError {
	return &DomainError{Code: e.Code, Message: msg, Status: e.Status}
}

var ErrInternal = &DomainError{
	Code:    "INTERNAL_ERROR",
	Message: "internal error",
	Status:  http.StatusInternalServerError,
}

// StatusOf maps err to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var de *DomainError
	if stderrors.As(err, &de) && de.Status != 0 {
		return de.Status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err is a DomainError with a 4xx status.
func IsClientError(err error) bool {
	s := StatusOf(err)
	return s >= 400 && s < 500
}

// CodeOf returns the DomainError code of err, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ErrInternal.Code
}

var ErrValidation = &DomainError{
	Code:    "VALIDATION_ERROR",
	Message: "invalid request",
	Status:  http.StatusBadRequest,
}

var ErrUnauthorized = &DomainError{
	Code:    "UNAUTHORIZED",
	Message: "missing or invalid token",
	Status:  http.StatusUnauthorized,
}

var ErrForbidden = &DomainError{
	Code:    "FORBIDDEN",
	Message: "insufficient permissions",
	Status:  http.StatusForbidden,
}
