package llm

import "strings"

// CleanJSONBlock strips markdown fences and any conversational text around the
// first JSON object or array in a model response. Text with no JSON in it is
// returned trimmed.
func CleanJSONBlock(text string) string {
	text = stripCodeFence(strings.TrimSpace(text))

	for start := 0; start < len(text); {
		idx := strings.IndexAny(text[start:], "{[")
		if idx < 0 {
			break
		}
		idx += start

		var doc string
		if text[idx] == '{' {
			doc = extractJSONObject(text[idx:])
		} else {
			doc = extractJSONArray(text[idx:])
		}
		if doc != "" {
			return doc
		}
		start = idx + 1
	}

	return text
}

func stripCodeFence(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A short first line with no spaces or braces is a language tag.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractJSONObject returns the balanced {...} prefix of s, or "" if s does not start with one.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced [...] prefix of s, or "" if s does not start with one.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, close byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
