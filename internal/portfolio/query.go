package portfolio

import (
	"strings"

	"github.com/jonathan/coldmail/internal/skills"
	"github.com/jonathan/coldmail/internal/types"
)

// exactMatchScore ranks a canonical-name match above any partial token overlap.
const exactMatchScore = 2.0

// QueryLinks returns the sample links that best demonstrate the given skills.
// Each skill picks its best scoring entry, with ties going to the entry listed first.
// Links are deduplicated in first-seen order and capped at MaxLinks. The result is
// never nil and is empty for empty input or an unloaded portfolio.
func (p *Portfolio) QueryLinks(skillNames []string) []string {
	links := []string{}
	if len(skillNames) == 0 {
		return links
	}

	p.mu.RLock()
	entries := p.entries
	p.mu.RUnlock()
	if len(entries) == 0 {
		return links
	}

	limit := p.MaxLinks
	if limit <= 0 {
		limit = DefaultMaxLinks
	}

	seen := make(map[string]bool)
	for _, name := range skills.NormalizeNames(skillNames) {
		entry, ok := bestEntry(name, entries)
		if !ok || seen[entry.Link] {
			continue
		}
		seen[entry.Link] = true
		links = append(links, entry.Link)
		if len(links) == limit {
			break
		}
	}
	return links
}

func bestEntry(skill string, entries []types.PortfolioEntry) (types.PortfolioEntry, bool) {
	query := strings.ToLower(skill)
	queryTokens := skills.Tokens(skill)
	if len(queryTokens) == 0 {
		return types.PortfolioEntry{}, false
	}

	var (
		best      types.PortfolioEntry
		bestScore float64
	)
	for _, entry := range entries {
		score := entryScore(query, queryTokens, entry)
		if score > bestScore {
			best, bestScore = entry, score
		}
	}
	return best, bestScore > 0
}

// entryScore is the best score over the entry's skills: exactMatchScore for a
// canonical name match, otherwise the share of query tokens the skill contains.
func entryScore(query string, queryTokens []string, entry types.PortfolioEntry) float64 {
	var best float64
	for _, candidate := range entry.Skills {
		if strings.ToLower(skills.NormalizeName(candidate)) == query {
			return exactMatchScore
		}

		candidateTokens := make(map[string]bool)
		for _, tok := range skills.Tokens(candidate) {
			candidateTokens[tok] = true
		}

		matched := 0
		for _, tok := range queryTokens {
			if candidateTokens[tok] {
				matched++
			}
		}
		if score := float64(matched) / float64(len(queryTokens)); score > best {
			best = score
		}
	}
	return best
}
