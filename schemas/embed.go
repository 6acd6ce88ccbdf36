// Package schemas embeds the JSON Schemas for model output and portfolio files.
package schemas

import _ "embed"

// JobPostings validates job extraction output: one posting object or an array of them.
//
//go:embed job_postings.schema.json
var JobPostings string

// Portfolio validates YAML portfolio files once decoded to JSON.
//
//go:embed portfolio.schema.json
var Portfolio string
