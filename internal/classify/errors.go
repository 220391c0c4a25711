package classify

import (
	"errors"
	"fmt"
)

// Collaborator failures. None of these escape Enrich; they become the
// outcome's message.
var (
	// ErrNoProvider is returned when no API key is configured for the
	// selected provider.
	ErrNoProvider = errors.New("no AI provider configured")

	// ErrUnknownProvider is returned for a provider name other than
	// gemini or openai.
	ErrUnknownProvider = errors.New("unknown AI provider")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrNotJSON is returned when the response holds no JSON object.
	ErrNotJSON = errors.New("response is not a JSON object")

	// ErrAllModelsFailed is returned when every model in the fallback
	// list failed.
	ErrAllModelsFailed = errors.New("all models failed")
)

// CollaboratorError wraps a failed model call.
type CollaboratorError struct {
	Op       string
	Provider string
	Model    string
	Err      error
}

// Error implements the error interface.
func (e *CollaboratorError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("classify: %s failed (%s/%s): %v", e.Op, e.Provider, e.Model, e.Err)
	}
	return fmt.Sprintf("classify: %s failed (%s): %v", e.Op, e.Provider, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *CollaboratorError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
