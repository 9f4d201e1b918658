// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrMissingCredential indicates a required API credential is not configured.
	ErrMissingCredential = errors.New("missing required credential")

	// ErrInvalidInput indicates user provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrToolNotFound indicates the model requested a tool that is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrIterationLimit indicates the agent reasoning loop exceeded its step budget.
	ErrIterationLimit = errors.New("iteration limit exceeded")
)

// APIError represents an upstream Duke API failure with context.
// StatusCode is zero when the request never produced a response.
type APIError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api error (url=%s): %v", e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new API error.
func NewAPIError(url string, statusCode int, err error) *APIError {
	return &APIError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// ParseError represents a response body that could not be decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (url=%s): %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new parse error.
func NewParseError(url string, err error) *ParseError {
	return &ParseError{URL: url, Err: err}
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
