// Package composing drafts cold emails for a job posting with an LLM.
package composing

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/coldmail/internal/llm"
	"github.com/jonathan/coldmail/internal/prompts"
	"github.com/jonathan/coldmail/internal/types"
)

// Default sender persona used when none is configured.
const (
	DefaultSenderName  = "a software engineer"
	DefaultSenderPitch = "You build reliable software and have delivered projects across web, mobile and cloud platforms."
)

// noLinksText stands in for the link list when the portfolio had no match.
const noLinksText = "(none)"

var (
	subjectLine = regexp.MustCompile(`(?i)^subject:[^\n]*(?:\n+|$)`)
	// Bracketed fill-ins the model leaves for the sender's name.
	namePlaceholder = regexp.MustCompile(`\[(?:Your Name|Your Full Name|Name)\]`)
)

// Composer drafts cold emails.
type Composer struct {
	Client      llm.Client
	Tier        llm.ModelTier
	SenderName  string
	SenderPitch string
	Verbose     bool
}

// NewComposer creates a Composer with the given sender persona. Empty values fall back to defaults.
func NewComposer(client llm.Client, senderName, senderPitch string) *Composer {
	return &Composer{
		Client:      client,
		Tier:        llm.TierStandard,
		SenderName:  senderName,
		SenderPitch: senderPitch,
	}
}

// WriteEmail drafts a plain-text email body for job, citing links as work samples.
// Every failure is a *CompositionError.
func (c *Composer) WriteEmail(ctx context.Context, job types.JobPosting, links []string) (string, error) {
	if c.Client == nil {
		return "", &CompositionError{Message: "cannot call model", Cause: ErrNoClient}
	}

	prompt, err := c.buildPrompt(job, links)
	if err != nil {
		return "", err
	}

	tier := c.Tier
	if tier == "" {
		tier = llm.TierStandard
	}

	responseText, err := c.Client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", &CompositionError{Message: "model call failed", Cause: err}
	}

	email := c.postProcess(responseText)
	if email == "" {
		return "", &CompositionError{Message: "no email text", Cause: ErrEmptyEmail}
	}

	if c.Verbose {
		log.Printf("[VERBOSE] Composed email for %q: %d chars, %d links", job.Role, len(email), len(links))
	}
	return email, nil
}

func (c *Composer) buildPrompt(job types.JobPosting, links []string) (string, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return "", &CompositionError{Message: "failed to encode job posting", Cause: err}
	}

	linkText := noLinksText
	if len(links) > 0 {
		linkText = strings.Join(links, ", ")
	}

	prompt, err := prompts.Render(prompts.KeyWriteEmail, map[string]string{
		"JobJSON":     string(jobJSON),
		"SenderName":  c.senderName(),
		"SenderPitch": c.senderPitch(),
		"Links":       linkText,
	})
	if err != nil {
		return "", &CompositionError{Message: "failed to build prompt", Cause: err}
	}
	return prompt, nil
}

// postProcess strips fences and a leading subject line, and fills in the sender name.
func (c *Composer) postProcess(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 && !strings.Contains(text[:idx], " ") {
			text = text[idx+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	text = subjectLine.ReplaceAllString(text, "")

	if name := strings.TrimSpace(c.SenderName); name != "" {
		text = namePlaceholder.ReplaceAllString(text, name)
	}
	return strings.TrimSpace(text)
}

func (c *Composer) senderName() string {
	if name := strings.TrimSpace(c.SenderName); name != "" {
		return name
	}
	return DefaultSenderName
}

func (c *Composer) senderPitch() string {
	if pitch := strings.TrimSpace(c.SenderPitch); pitch != "" {
		return pitch
	}
	return DefaultSenderPitch
}
