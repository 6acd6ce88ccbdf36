// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobPosting outputs a human-readable summary of an extracted job.
func (p *Printer) PrintJobPosting(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:       %s\n", job.RoleOr("(unknown)")))
	if job.Experience != "" {
		sb.WriteString(fmt.Sprintf("Experience: %s\n", job.Experience))
	}

	sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", len(job.Skills)))
	for i, skill := range job.Skills {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.Skills)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", skill))
	}

	if job.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(job.Description)
	}

	p.printBox("EXTRACTED JOB POSTING", strings.TrimRight(sb.String(), "\n"))
}

// PrintLinks outputs the portfolio links matched to a job.
func (p *Printer) PrintLinks(links []string) {
	if len(links) == 0 {
		p.printBox("PORTFOLIO LINKS", "No matching work samples")
		return
	}

	var sb strings.Builder
	for i, link := range links {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, link))
	}
	p.printBox(fmt.Sprintf("PORTFOLIO LINKS (%d)", len(links)), strings.TrimRight(sb.String(), "\n"))
}

// PrintHistory outputs recently sent emails.
func (p *Printer) PrintHistory(records []db.OutreachRecord) {
	if len(records) == 0 {
		p.printBox("SENT EMAILS", "Nothing sent yet")
		return
	}

	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.SentAt.Local().Format("2006-01-02 15:04"), r.Recipient))
		sb.WriteString(fmt.Sprintf("  %s\n", r.Subject))
	}
	p.printBox(fmt.Sprintf("SENT EMAILS (%d)", len(records)), strings.TrimRight(sb.String(), "\n"))
}
