package errors

import (
	"errors"
	"fmt"
)

// Category classifies the failures the engine can surface to callers.
type Category string

const (
	// Data-level failures raised by the price store
	CategoryNotFound    Category = "NOT_FOUND"
	CategoryEmptySeries Category = "EMPTY_SERIES"

	// Alignment failures raised before any computation happens
	CategoryNoOverlap           Category = "NO_OVERLAP"
	CategoryInsufficientHistory Category = "INSUFFICIENT_HISTORY"
	CategoryInvalidRange        Category = "INVALID_RANGE"
)

// EngineError is a categorized error with enough context to tell the caller
// which run aborted and why. Metric-level undefined values are never
// represented as errors; they propagate as NaN inside summaries.
type EngineError struct {
	Category   Category
	Component  string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Component, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Component, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// New creates a new categorized engine error.
func New(category Category, component, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Message:   message,
	}
}

// Newf creates a new categorized engine error with a formatted message.
func Newf(category Category, component, format string, args ...interface{}) *EngineError {
	return New(category, component, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with engine error context.
func Wrap(err error, category Category, component, message string) *EngineError {
	if err == nil {
		return nil
	}
	return &EngineError{
		Category:   category,
		Component:  component,
		Message:    message,
		Underlying: err,
	}
}

// Is reports whether err carries the given category.
func Is(err error, category Category) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Category == category
	}
	return false
}

// IsNotFound reports whether err means the requested instrument has no
// backing data.
func IsNotFound(err error) bool { return Is(err, CategoryNotFound) }

// IsEmptySeries reports whether err means the data source exists but holds
// zero usable rows.
func IsEmptySeries(err error) bool { return Is(err, CategoryEmptySeries) }

// IsNoOverlap reports whether err means the two series share no dates.
func IsNoOverlap(err error) bool { return Is(err, CategoryNoOverlap) }

// IsInsufficientHistory reports whether err means the warm-up window could
// not be filled before the requested start.
func IsInsufficientHistory(err error) bool { return Is(err, CategoryInsufficientHistory) }

// IsInvalidRange reports whether err means start >= end.
func IsInvalidRange(err error) bool { return Is(err, CategoryInvalidRange) }
