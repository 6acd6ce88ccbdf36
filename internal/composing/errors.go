package composing

import (
	"errors"
	"fmt"
)

var (
	// ErrNoClient is returned when a Composer has no model client configured.
	ErrNoClient = errors.New("no LLM client configured")
	// ErrEmptyEmail is returned when the model produced no usable email text.
	ErrEmptyEmail = errors.New("model returned an empty email")
)

// CompositionError represents a failure to draft the email
type CompositionError struct {
	Message string
	Cause   error
}

func (e *CompositionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("email composition failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("email composition failed: %s", e.Message)
}

func (e *CompositionError) Unwrap() error {
	return e.Cause
}
