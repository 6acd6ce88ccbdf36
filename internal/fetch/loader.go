package fetch

import (
	"context"
	"log"
	"time"
)

// Page is a fetched job posting page reduced to text.
type Page struct {
	URL      string
	Platform Platform
	HTML     string
	Text     string
}

// Loader loads a page and returns its visible text.
type Loader interface {
	Load(ctx context.Context, url string) (*Page, error)
}

// HTTPLoader fetches pages over HTTP with optional headless browser fallback.
type HTTPLoader struct {
	Options    *Options
	UseBrowser bool
	Verbose    bool
}

// NewHTTPLoader creates a loader with the given request timeout.
func NewHTTPLoader(timeout time.Duration, useBrowser, verbose bool) *HTTPLoader {
	opts := DefaultOptions()
	if timeout > 0 {
		opts.Timeout = timeout
	}
	return &HTTPLoader{Options: opts, UseBrowser: useBrowser, Verbose: verbose}
}

// Load fetches url and extracts its main text using platform-specific selectors.
func (l *HTTPLoader) Load(ctx context.Context, url string) (*Page, error) {
	platform := DetectPlatform(url)
	if l.Verbose {
		log.Printf("[VERBOSE] URL: %s (platform: %s)", url, platform)
	}

	result, err := URL(ctx, url, l.Options)
	if err != nil {
		return nil, err
	}

	contentSelectors := PlatformContentSelectors(platform)
	noiseSelectors := PlatformNoiseSelectors(platform)

	text, err := ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, &Error{URL: url, Message: "content extraction failed", Cause: err}
	}
	if l.Verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
	}

	html := result.HTML
	if l.UseBrowser && ShouldUseBrowser(text) {
		timeout := DefaultTimeout
		if l.Options != nil && l.Options.Timeout > 0 {
			timeout = l.Options.Timeout
		}
		rendered, browserErr := WithBrowser(ctx, url, timeout, l.Verbose)
		if browserErr != nil {
			log.Printf("[fetch] browser fallback failed for %s, keeping HTTP content: %v", url, browserErr)
		} else if browserText, err := ExtractMainText(rendered, contentSelectors, noiseSelectors...); err == nil {
			html, text = rendered, browserText
		}
	}

	return &Page{
		URL:      url,
		Platform: platform,
		HTML:     html,
		Text:     text,
	}, nil
}
