package forecast

import (
	"errors"
	"fmt"
)

// ErrInvalidMonths is returned when the elapsed month count of the fiscal
// year is outside 1..12. It signals a configuration mistake, not missing
// data, and is the one failure the engine surfaces to callers.
var ErrInvalidMonths = errors.New("months elapsed must be between 1 and 12")

// ConfigurationError wraps a configuration failure with the operation and
// offending value.
type ConfigurationError struct {
	Op    string
	Field string
	Value interface{}
	Err   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("forecast: %s failed: %s=%v: %v", e.Op, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ConfigurationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// ValidateMonths checks an elapsed month count.
func ValidateMonths(op string, months int) error {
	if months < 1 || months > 12 {
		return &ConfigurationError{Op: op, Field: "months_elapsed", Value: months, Err: ErrInvalidMonths}
	}
	return nil
}
