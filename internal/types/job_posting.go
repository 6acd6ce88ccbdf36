// Package types provides type definitions for structured data shared across coldmail.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobPosting represents a structured job posting extracted from a scraped page
type JobPosting struct {
	Role        string   `json:"role"`
	Experience  string   `json:"experience,omitempty"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
}

// RoleOr returns the role, or fallback when the role is blank.
func (j *JobPosting) RoleOr(fallback string) string {
	if j == nil || strings.TrimSpace(j.Role) == "" {
		return fallback
	}
	return j.Role
}

// PortfolioEntry maps a set of skills to a work sample link
type PortfolioEntry struct {
	Skills []string `json:"skills" yaml:"skills"`
	Link   string   `json:"link" yaml:"link"`
}
