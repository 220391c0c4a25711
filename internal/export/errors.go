package export

import (
	"errors"
	"fmt"
)

// ErrNoReport is returned when there is nothing to export.
var ErrNoReport = errors.New("no report to export")

// ExportError wraps a failure while building or writing a workbook.
type ExportError struct {
	Op    string
	Sheet string
	Err   error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("export: %s failed on sheet %q: %v", e.Op, e.Sheet, e.Err)
	}
	return fmt.Sprintf("export: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExportError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
