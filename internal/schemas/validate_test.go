package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobPostings_Valid(t *testing.T) {
	docs := []string{
		`{"role": "Senior Go Engineer", "skills": ["Go", "Kubernetes"]}`,
		`[{"role": "A"}, {"role": "B", "experience": "5 years", "description": "Build things"}]`,
		`[]`,
		`{"role": "Engineer", "experience": null, "skills": null}`,
	}

	for _, doc := range docs {
		assert.NoError(t, ValidateJobPostings(doc), doc)
	}
}

func TestValidateJobPostings_Invalid(t *testing.T) {
	docs := []string{
		`{"skills": ["Go"]}`,
		`{"role": 42}`,
		`[{"role": "A", "skills": "Go, Kubernetes"}]`,
		`"just a string"`,
	}

	for _, doc := range docs {
		err := ValidateJobPostings(doc)
		require.Error(t, err, doc)

		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr), doc)
	}
}

func TestValidateJobPostings_MalformedJSON(t *testing.T) {
	err := ValidateJobPostings(`{"role": `)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "job_postings.schema.json", loadErr.Path)
}

func TestValidatePortfolio(t *testing.T) {
	assert.NoError(t, ValidatePortfolio(`[{"skills": ["Go"], "link": "https://x.example"}]`))
	assert.NoError(t, ValidatePortfolio(`[{"skills": [], "link": "https://x.example"}]`))

	err := ValidatePortfolio(`[{"skills": ["Go"]}]`)
	assert.Error(t, err)

	err = ValidatePortfolio(`{"skills": ["Go"], "link": "https://x.example"}`)
	assert.Error(t, err)
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	assert.NoError(t, ValidateJSONString(schemaContent, `{"name": "test"}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "role", Message: "is required"},
			{Field: "skills", Message: "must be an array"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. role: is required")
	assert.Contains(t, msg, "2. skills: must be an array")
}
