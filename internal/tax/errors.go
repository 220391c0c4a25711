package tax

import (
	"errors"
	"fmt"
)

// ErrUnknownScenario is returned when a scenario name cannot be resolved.
var ErrUnknownScenario = errors.New("unknown tax scenario")

// ScenarioError describes a failed scenario lookup or simulation.
type ScenarioError struct {
	Op       string
	Scenario string
	Err      error
}

// Error implements the error interface.
func (e *ScenarioError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("tax: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("tax: %s failed for %s: %v", e.Op, e.Scenario, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ScenarioError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ScenarioError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapScenarioError wraps err unless it already is a ScenarioError.
func WrapScenarioError(op, scenario string, err error) error {
	if err == nil {
		return nil
	}
	var se *ScenarioError
	if errors.As(err, &se) {
		return err
	}
	return &ScenarioError{Op: op, Scenario: scenario, Err: err}
}
