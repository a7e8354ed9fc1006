// Package errors provides a lightweight structured error type (FrameError)
// for category-based classification of faults raised while driving the display.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a FrameError for classification.
type ErrorCategory string

const (
	// Startup configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Pass pipeline errors
	CategoryModule      ErrorCategory = "module"
	CategoryComposition ErrorCategory = "composition"
	CategoryDriver      ErrorCategory = "driver"
	CategoryFileSystem  ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Abandons the current pass step
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// FrameError is a structured error with category, retryability, and context.
type FrameError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for FrameError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *FrameError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping.
func (e *FrameError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *FrameError) WithContext(key string, value any) *FrameError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new FrameError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *FrameError {
	return &FrameError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new FrameError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *FrameError {
	return &FrameError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapRetryable creates a retryable FrameError. Retryable here means the
// next scheduled pass is expected to try again; nothing retries in-pass.
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *FrameError {
	e := Wrap(err, category, severity, message)
	e.Retryable = true
	return e
}

// As extracts the outermost FrameError from an error chain.
func As(err error) (*FrameError, bool) {
	var fe *FrameError
	if stdErrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsCategory checks if an error chain carries a FrameError of the category.
func IsCategory(err error, category ErrorCategory) bool {
	if fe, ok := As(err); ok {
		return fe.Category == category
	}
	return false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if fe, ok := As(err); ok {
		return fe.Retryable
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if the chain holds no FrameError.
func GetCategory(err error) ErrorCategory {
	if fe, ok := As(err); ok {
		return fe.Category
	}
	return CategoryInternal
}
