// Package ingestion turns scraped job posting pages into normalized plain text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	tagPattern         = regexp.MustCompile(`<[^>]*?>`)
	urlPattern         = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(\\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	nonAlnumPattern    = regexp.MustCompile(`[^a-zA-Z0-9 ]`)
	whitespaceRunRegex = regexp.MustCompile(`\s{2,}`)
)

// Normalize strips markup, URLs and punctuation from scraped text and collapses whitespace.
// The steps run in a fixed order: tags, URLs, non-alphanumerics, whitespace.
// The result only contains [A-Za-z0-9 ] with single interior spaces.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := tagPattern.ReplaceAllString(raw, "")
	text = urlPattern.ReplaceAllString(text, "")
	text = nonAlnumPattern.ReplaceAllString(text, "")
	text = whitespaceRunRegex.ReplaceAllString(text, " ")

	return strings.Join(strings.Fields(text), " ")
}
