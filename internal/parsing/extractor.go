// Package parsing extracts structured job postings from normalized page text using an LLM.
package parsing

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/coldmail/internal/llm"
	"github.com/jonathan/coldmail/internal/prompts"
	"github.com/jonathan/coldmail/internal/schemas"
	"github.com/jonathan/coldmail/internal/skills"
	"github.com/jonathan/coldmail/internal/types"
)

// Extractor turns careers page text into job postings.
type Extractor struct {
	Client  llm.Client
	Tier    llm.ModelTier
	Verbose bool
}

// NewExtractor creates an Extractor using the standard model tier.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{Client: client, Tier: llm.TierStandard}
}

// ExtractJobs asks the model for the postings found in text. Finding no postings
// is not an error and yields an empty slice. Every failure is an *ExtractionError.
func (e *Extractor) ExtractJobs(ctx context.Context, text string) ([]types.JobPosting, error) {
	if e.Client == nil {
		return nil, &ExtractionError{Message: "cannot call model", Cause: ErrNoClient}
	}
	if strings.TrimSpace(text) == "" {
		return []types.JobPosting{}, nil
	}

	prompt, err := prompts.Render(prompts.KeyExtractJobs, map[string]string{"PageText": text})
	if err != nil {
		return nil, &ExtractionError{Message: "failed to build prompt", Cause: err}
	}

	tier := e.Tier
	if tier == "" {
		tier = llm.TierStandard
	}

	responseText, err := e.Client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}
	if e.Verbose {
		log.Printf("[VERBOSE] Extraction response: %d chars from %s", len(responseText), e.Client.GetModel(tier))
	}

	return parseResponse(responseText)
}

// parseResponse validates and decodes a model response holding one posting or an array of them.
func parseResponse(responseText string) ([]types.JobPosting, error) {
	cleaned := llm.CleanJSONBlock(responseText)
	if cleaned == "" {
		return nil, &ExtractionError{Message: "model returned an empty response"}
	}

	if err := schemas.ValidateJobPostings(cleaned); err != nil {
		return nil, &ExtractionError{Message: "model output is not a job posting list", Cause: err}
	}

	var postings []types.JobPosting
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &postings); err != nil {
			return nil, &ExtractionError{Message: "failed to decode job postings", Cause: err}
		}
	} else {
		var single types.JobPosting
		if err := json.Unmarshal([]byte(cleaned), &single); err != nil {
			return nil, &ExtractionError{Message: "failed to decode job posting", Cause: err}
		}
		postings = append(postings, single)
	}

	return postProcess(postings), nil
}

// postProcess trims fields, canonicalizes skills and drops postings without a role.
func postProcess(postings []types.JobPosting) []types.JobPosting {
	result := make([]types.JobPosting, 0, len(postings))
	for _, p := range postings {
		p.Role = strings.TrimSpace(p.Role)
		if p.Role == "" {
			continue
		}
		p.Experience = strings.TrimSpace(p.Experience)
		p.Description = strings.TrimSpace(p.Description)
		p.Skills = skills.NormalizeNames(p.Skills)
		result = append(result, p)
	}
	return result
}
