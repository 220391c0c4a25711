package documents

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField is returned when a field is present but cannot be
	// coerced to the expected type. Callers log it and use the zero value.
	ErrMalformedField = errors.New("malformed field")

	// ErrUnsupportedShape is returned when a document is neither a JSON array
	// nor an object wrapping one under "data".
	ErrUnsupportedShape = errors.New("unsupported document shape")
)

// FieldError describes a single field that failed coercion.
type FieldError struct {
	Key   string
	Value interface{}
	Err   error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field '%s': %v (value: %v)", e.Key, e.Err, e.Value)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// LoadError wraps failures reading or decoding a document file.
type LoadError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("documents: %s failed for %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *LoadError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
