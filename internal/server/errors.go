// Package server serves the cold email generator over HTTP: an HTML page driven by
// form posts and a JSON API over the same sessions.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/coldmail/internal/composing"
	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/fetch"
	"github.com/jonathan/coldmail/internal/mailer"
	"github.com/jonathan/coldmail/internal/parsing"
	"github.com/jonathan/coldmail/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		inputErr       *session.ValidationError
		transitionErr  *session.TransitionError
		fetchErr       *fetch.Error
		extractionErr  *parsing.ExtractionError
		compositionErr *composing.CompositionError
		configErr      *config.ConfigurationError
		sendErr        *mailer.SendError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &inputErr), errors.Is(err, session.ErrEmptyRecipient):
		return http.StatusBadRequest
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.As(err, &fetchErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extractionErr), errors.As(err, &compositionErr), errors.As(err, &sendErr):
		return http.StatusBadGateway
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
