package parsing

import (
	"errors"
	"fmt"
)

// ErrNoClient is returned when an Extractor has no model client configured.
var ErrNoClient = errors.New("no LLM client configured")

// ExtractionError represents a failed or unusable job extraction
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
