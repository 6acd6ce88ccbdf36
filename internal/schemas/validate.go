// Package schemas validates JSON documents against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	schemafiles "github.com/jonathan/coldmail/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading the schema or the document itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	jobPostingsSchema = compiled("job_postings.schema.json", schemafiles.JobPostings)
	portfolioSchema   = compiled("portfolio.schema.json", schemafiles.Portfolio)
)

func compiled(name, content string) func() (*gojsonschema.Schema, error) {
	return sync.OnceValues(func() (*gojsonschema.Schema, error) {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
		if err != nil {
			return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
		}
		return schema, nil
	})
}

// ValidateJobPostings validates model extraction output.
func ValidateJobPostings(jsonContent string) error {
	schema, err := jobPostingsSchema()
	if err != nil {
		return err
	}
	return validate(schema, "job_postings.schema.json", jsonContent)
}

// ValidatePortfolio validates a portfolio document encoded as JSON.
func ValidatePortfolio(jsonContent string) error {
	schema, err := portfolioSchema()
	if err != nil {
		return err
	}
	return validate(schema, "portfolio.schema.json", jsonContent)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "invalid schema", Cause: err}
	}
	return validate(schema, "(string schema)", jsonContent)
}

func validate(schema *gojsonschema.Schema, name, jsonContent string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "document could not be loaded", Cause: err}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
