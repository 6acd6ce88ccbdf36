package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SubmitRequest asks for a job posting page to be turned into an email.
type SubmitRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

// SendRequest asks for the generated email to be sent.
type SendRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
}

// Validate validates the SubmitRequest using the validator.
func (r *SubmitRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SendRequest using the validator.
func (r *SendRequest) Validate() error {
	return validate.Struct(r)
}
