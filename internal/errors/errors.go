// Package errors provides a lightweight structured error type (ApimarkError)
// for category-based classification in the CLI and the generation pipeline.
package errors

import (
	"fmt"
)

// ErrorCategory classifies an ApimarkError for exit-code mapping and logging.
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryInput      ErrorCategory = "input"

	// Output and processing errors
	CategoryFileSystem ErrorCategory = "filesystem"

	// Invariant violations inside the generator
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Run continues degraded
)

// ApimarkError is a structured error with category, severity and context.
type ApimarkError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ApimarkError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *ApimarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *ApimarkError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *ApimarkError) WithContext(key string, value any) *ApimarkError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ApimarkError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *ApimarkError {
	return &ApimarkError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ApimarkError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ApimarkError {
	return &ApimarkError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
