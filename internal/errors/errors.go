// Package apperrors defines the error classes of the matcalc command
// (configuration, multiplication, validation) and maps them to process exit
// codes. Every wrapping type implements Unwrap so callers can match library
// sentinels such as matrix.ErrDimensionMismatch with errors.Is.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful run.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The -timeout budget was exhausted.
	ExitErrorMismatch = 3   // Two algorithms produced different products.
	ExitErrorConfig   = 4   // Invalid flags, environment or operand shapes.
	ExitErrorCanceled = 130 // Interrupted, e.g. by SIGINT.
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: The ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// MultiplicationError ties a failed multiplication to the algorithm that ran
// it.
type MultiplicationError struct {
	// Algorithm is the label of the failing algorithm.
	Algorithm string
	// Cause is the underlying error.
	Cause error
}

// Error returns "<algorithm>: <cause>".
func (e MultiplicationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Algorithm, e.Cause)
}

// Unwrap returns the underlying cause.
func (e MultiplicationError) Unwrap() error { return e.Cause }

// NewMultiplicationError wraps cause, or returns nil when cause is nil.
func NewMultiplicationError(algorithm string, cause error) error {
	if cause == nil {
		return nil
	}
	return MultiplicationError{Algorithm: algorithm, Cause: cause}
}

// WrapError adds context to err with %w, or returns nil when err is nil.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError reports a single invalid field.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value, may be nil.
	Value any
}

// Error returns the error message.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
