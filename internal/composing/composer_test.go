package composing

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/coldmail/internal/llm"
	"github.com/jonathan/coldmail/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	response string
	err      error
	prompt   string
	tier     llm.ModelTier
}

func (m *mockClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	m.prompt = prompt
	m.tier = tier
	return m.response, m.err
}

func (m *mockClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateContent(ctx, prompt, tier)
}

func (m *mockClient) GetModel(tier llm.ModelTier) string { return "mock-" + string(tier) }
func (m *mockClient) Close() error                       { return nil }

var sampleJob = types.JobPosting{
	Role:        "Senior Go Engineer",
	Experience:  "5 years",
	Skills:      []string{"Go", "Kubernetes"},
	Description: "Build platform services.",
}

func TestWriteEmail_Success(t *testing.T) {
	client := &mockClient{response: "Dear Hiring Manager,\n\nI would love to help.\n\nBest,\nSam"}
	composer := NewComposer(client, "Sam", "I build backend systems.")

	email, err := composer.WriteEmail(context.Background(), sampleJob, []string{"https://a.example", "https://b.example"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\n\nI would love to help.\n\nBest,\nSam", email)

	assert.Equal(t, llm.TierStandard, client.tier)
	assert.Contains(t, client.prompt, `"role": "Senior Go Engineer"`)
	assert.Contains(t, client.prompt, `"Kubernetes"`)
	assert.Contains(t, client.prompt, "You are Sam. I build backend systems.")
	assert.Contains(t, client.prompt, "https://a.example, https://b.example")
}

func TestWriteEmail_DefaultPersonaAndNoLinks(t *testing.T) {
	client := &mockClient{response: "Dear Hiring Manager..."}

	_, err := NewComposer(client, "", "  ").WriteEmail(context.Background(), sampleJob, nil)
	require.NoError(t, err)
	assert.Contains(t, client.prompt, "You are "+DefaultSenderName+". "+DefaultSenderPitch)
	assert.Contains(t, client.prompt, noLinksText)
}

func TestWriteEmail_PostProcess(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{"plain", "  Dear Hiring Manager...  ", "Dear Hiring Manager..."},
		{"fenced", "```\nDear Hiring Manager...\n```", "Dear Hiring Manager..."},
		{"fenced with language", "```markdown\nDear Hiring Manager...\n```", "Dear Hiring Manager..."},
		{"subject line dropped", "Subject: Senior Go Engineer\n\nDear Hiring Manager...", "Dear Hiring Manager..."},
		{"name placeholder", "Dear Hiring Manager...\n\nBest,\n[Your Name]", "Dear Hiring Manager...\n\nBest,\nSam"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composer := NewComposer(&mockClient{response: tt.response}, "Sam", "")
			email, err := composer.WriteEmail(context.Background(), sampleJob, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email)
		})
	}
}

func TestWriteEmail_Errors(t *testing.T) {
	modelErr := errors.New("deadline exceeded")

	tests := []struct {
		name   string
		client llm.Client
		cause  error
	}{
		{"no client", nil, ErrNoClient},
		{"model failure", &mockClient{err: modelErr}, modelErr},
		{"empty output", &mockClient{response: "   "}, ErrEmptyEmail},
		{"only a subject", &mockClient{response: "Subject: hi\n"}, ErrEmptyEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := (&Composer{Client: tt.client}).WriteEmail(context.Background(), sampleJob, nil)
			require.Error(t, err)
			assert.Empty(t, email)

			var compErr *CompositionError
			require.ErrorAs(t, err, &compErr)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestCompositionError_Error(t *testing.T) {
	err := &CompositionError{Message: "model call failed", Cause: errors.New("timeout")}
	assert.Equal(t, "email composition failed: model call failed: timeout", err.Error())
}
