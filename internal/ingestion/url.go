package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/coldmail/internal/fetch"
)

// ErrEmptyPage is returned when a page loads but yields no usable text.
var ErrEmptyPage = errors.New("page returned no content")

// Ingest loads a job posting page and returns its normalized text.
// Every failure, including an empty page, is reported as a *fetch.Error.
func Ingest(ctx context.Context, loader fetch.Loader, urlStr string, verbose bool) (string, error) {
	urlStr = strings.TrimSpace(urlStr)

	page, err := loader.Load(ctx, urlStr)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			return "", err
		}
		return "", &fetch.Error{URL: urlStr, Message: "could not load the webpage", Cause: err}
	}
	if page == nil || strings.TrimSpace(page.Text) == "" {
		return "", &fetch.Error{URL: urlStr, Message: "could not load the webpage", Cause: ErrEmptyPage}
	}

	normalized := Normalize(page.Text)
	if normalized == "" {
		return "", &fetch.Error{URL: urlStr, Message: "could not load the webpage", Cause: ErrEmptyPage}
	}

	if verbose {
		log.Printf("[VERBOSE] Normalized text: %d chars (from %d): %s", len(normalized), len(page.Text), Preview(normalized, 120))
	}
	return normalized, nil
}

// Preview returns at most n characters of text, for log lines.
func Preview(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return fmt.Sprintf("%s...", text[:n])
}
