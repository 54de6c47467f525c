// Package shared contains common domain types, errors and events used across
// all feature packages of the portal client. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds that can be used for error checking with errors.Is().
// They form the failure taxonomy every store reports against.
var (
	// Input errors, caught before a request is dispatched.
	ErrValidation = errors.New("validation error")

	// Authorization errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Entity errors.
	ErrNotFound = errors.New("entity not found")

	// Transport errors.
	ErrNetwork = errors.New("network error")
	ErrTimeout = errors.New("operation timeout")

	// Anything the server rejected without a more specific kind.
	ErrUnknown = errors.New("unknown error")
)

// DomainError represents a feature-specific error with context.
type DomainError struct {
	Domain  string // e.g., "diary", "appointments", "auth"
	Op      string // Operation that failed, e.g., "CreateNote"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// UserMessager is implemented by errors that carry text fit for display,
// such as the transport's rejection.
type UserMessager interface {
	UserMessage() string
}

// Message extracts the human-readable text a store records for err.
// The rejection's own message wins; otherwise fallback is used.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}

	var de *DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}

	return fallback
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized checks if the error means the session is no longer valid.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransport checks if the error never reached the server or timed out.
func IsTransport(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}
