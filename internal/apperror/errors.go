// Package apperror defines the error taxonomy of the producto front-end.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"productos/internal/validation"
)

// AppError is implemented by every typed error of this package.
type AppError interface {
	error
	Category() string // "TRANSPORT_ERROR", "STATUS_ERROR" or "VALIDATION_ERROR"
	Unwrap() error
}

// TransportError means the request never produced a response
// (connection refused, DNS failure, context cancelled, ...).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string    { return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err) }
func (e *TransportError) Category() string { return "TRANSPORT_ERROR" }
func (e *TransportError) Unwrap() error    { return e.Err }

// NewTransportError wraps err as a TransportError for operation op.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Message)
}
func (e *StatusError) Category() string { return "STATUS_ERROR" }
func (e *StatusError) Unwrap() error    { return nil }

// NewStatusError builds a StatusError for operation op.
func NewStatusError(op string, status int, message string) *StatusError {
	return &StatusError{Op: op, Status: status, Message: message}
}

// ValidationError is a local field-rule failure. It never reaches the network.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Violations.Error())
}
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError builds a ValidationError from violations.
func NewValidationError(violations validation.Violations) *ValidationError {
	return &ValidationError{Violations: violations}
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Category returns the category of a typed error, or "UNKNOWN_ERROR".
func Category(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Category()
	}
	return "UNKNOWN_ERROR"
}
