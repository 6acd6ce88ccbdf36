package session

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the outcome of a user action.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindFetch         ErrorKind = "FetchError"
	KindExtraction    ErrorKind = "ExtractionError"
	KindNoJobsFound   ErrorKind = "NoJobsFound"
	KindConfiguration ErrorKind = "ConfigurationError"
	KindSend          ErrorKind = "SendError"
	KindValidation    ErrorKind = "ValidationError"
)

var (
	// ErrEmptyRecipient is returned when Send is called without a recipient.
	ErrEmptyRecipient = errors.New("please enter a recipient email address")
	// ErrNoJobsFound signals an extraction that found nothing. It is not a failure.
	ErrNoJobsFound = errors.New("no jobs found in the provided URL")
)

// TransitionError reports an action that is not allowed in the current state.
type TransitionError struct {
	Action string
	State  State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Action, e.State)
}

// ValidationError reports bad user input.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Outcome is the result of one controller action.
type Outcome struct {
	State State
	Err   error
	Kind  ErrorKind
}

// Failed reports whether the action failed. NoJobsFound is not a failure.
func (o Outcome) Failed() bool {
	return o.Err != nil && o.Kind != KindNoJobsFound
}
