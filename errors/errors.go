// Package errors provides categorized errors with component and context metadata.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryParse         ErrorCategory = "parse"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryValidation    ErrorCategory = "validation"
	CategoryGeometry      ErrorCategory = "geometry"
	CategoryDatabase      ErrorCategory = "database"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryCancellation  ErrorCategory = "cancellation"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when no component was given.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	Component string         // Component where error occurred
	Category  ErrorCategory  // Error category for grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	if ee.Err == nil {
		return string(ee.Category)
	}
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches another EnhancedError by category, otherwise defers to the wrapped error
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}

	return maps.Clone(ee.Context)
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder around err
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error builder
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build creates the EnhancedError
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.Component == "" {
		ee.Component = ComponentUnknown
	}
	if ee.Category == "" {
		ee.Category = CategoryGeneric
	}
	return ee
}

// CategoryOf returns the category of the first EnhancedError in err's chain
func CategoryOf(err error) ErrorCategory {
	var ee *EnhancedError
	if As(err, &ee) {
		return ee.Category
	}
	return ""
}

// HasCategory reports whether err carries the given category
func HasCategory(err error, category ErrorCategory) bool {
	return Is(err, &EnhancedError{Category: category})
}

// Standard library passthroughs so callers need only one errors import.

// NewStd creates a plain error, same as the standard library errors.New
func NewStd(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
