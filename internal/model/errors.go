package model

import (
	"fmt"
)

// ValidationError represents a batch that failed validation before any
// remote call was made
type ValidationError struct {
	Field    string
	Customer string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Customer != "" {
		return fmt.Sprintf("validation failed for %s on %s: %s", e.Customer, e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, customer, message string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Customer: customer,
		Message:  message,
	}
}

// BuildError represents a customer row that could not be turned into an
// invoice request
type BuildError struct {
	Customer string
	Field    string
	Message  string
	Cause    error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot build invoice for %s: %s: %s (%v)", e.Customer, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("cannot build invoice for %s: %s: %s", e.Customer, e.Field, e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// NewBuildError creates a new build error
func NewBuildError(customer, field, message string, cause error) *BuildError {
	return &BuildError{
		Customer: customer,
		Field:    field,
		Message:  message,
		Cause:    cause,
	}
}

// RemoteError represents a failed call to the invoicing service. Status is
// zero when the request never produced a response (transport error, timeout).
type RemoteError struct {
	Method string
	Status int
	Body   string
	Cause  error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status == 0 && e.Cause != nil:
		return fmt.Sprintf("remote %s failed: %v", e.Method, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("remote %s failed [%d]: %s (%v)", e.Method, e.Status, e.Body, e.Cause)
	default:
		return fmt.Sprintf("remote %s failed [%d]: %s", e.Method, e.Status, e.Body)
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// NewRemoteError creates a new remote error
func NewRemoteError(method string, status int, body string, cause error) *RemoteError {
	return &RemoteError{
		Method: method,
		Status: status,
		Body:   body,
		Cause:  cause,
	}
}

// AuthError represents a failure to open the remote session
type AuthError struct {
	Email string
	Cause error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("cannot open session for %s: %v", e.Email, e.Cause)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates a new auth error
func NewAuthError(email string, cause error) *AuthError {
	return &AuthError{
		Email: email,
		Cause: cause,
	}
}

// NumberingError represents an invoice number that does not follow the
// prefix + sequence convention
type NumberingError struct {
	Number  string
	Message string
}

func (e *NumberingError) Error() string {
	return fmt.Sprintf("invalid invoice number %q: %s", e.Number, e.Message)
}

// NewNumberingError creates a new numbering error
func NewNumberingError(number, message string) *NumberingError {
	return &NumberingError{
		Number:  number,
		Message: message,
	}
}
