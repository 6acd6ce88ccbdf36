// Package skills canonicalizes skill names and splits them into match tokens.
package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":           "Go",
	"go lang":          "Go",
	"javascript":       "JavaScript",
	"js":               "JavaScript",
	"typescript":       "TypeScript",
	"ts":               "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"react.js":         "React",
	"reactjs":          "React",
	"vue.js":           "Vue",
	"vuejs":            "Vue",
	"node.js":          "Node.js",
	"nodejs":           "Node.js",
	"node":             "Node.js",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"mongo":            "MongoDB",
	"mongodb":          "MongoDB",
	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
	"aws":              "AWS",
	"gcp":              "GCP",
	"sql":              "SQL",
	"ios":              "iOS",
}

// NormalizeName returns the canonical form of a skill name.
func NormalizeName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case (gRPC, PyTorch) and all-caps acronyms (PHP, REST) are kept.
	if normalized != lower {
		return normalized
	}

	// Single lowercase words get a leading capital.
	if !strings.Contains(normalized, " ") {
		first, size := utf8.DecodeRuneInString(normalized)
		return string(unicode.ToUpper(first)) + normalized[size:]
	}

	return normalized
}

// NormalizeNames canonicalizes and deduplicates a list of skill names, keeping first-seen order.
func NormalizeNames(names []string) []string {
	result := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		canonical := NormalizeName(name)
		key := strings.ToLower(canonical)
		if canonical == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, canonical)
	}
	return result
}

// Tokens splits a skill name into lowercase match tokens.
// Symbols that carry meaning in tech names (+, #, .) stay attached to the token.
func Tokens(skillName string) []string {
	canonical := strings.ToLower(NormalizeName(skillName))
	fields := strings.FieldsFunc(canonical, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",;/|()[]{}&", r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".:-")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
