// Package portfolio loads the table of work samples and matches them against job skills.
package portfolio

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonathan/coldmail/internal/schemas"
	"github.com/jonathan/coldmail/internal/skills"
	"github.com/jonathan/coldmail/internal/types"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// DefaultMaxLinks bounds the number of links returned by QueryLinks.
const DefaultMaxLinks = 3

//go:embed default_portfolio.csv
var defaultPortfolio []byte

// Format identifies the encoding of a portfolio file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ErrNoEntries is returned when a portfolio file parses but holds no usable rows.
var ErrNoEntries = errors.New("portfolio has no entries")

// Portfolio is a read-only catalog of skill sets and the sample links that demonstrate them.
type Portfolio struct {
	// Path is the portfolio file. When empty the embedded default is used.
	Path string
	// MaxLinks caps QueryLinks results. Zero means DefaultMaxLinks.
	MaxLinks int

	mu      sync.RWMutex
	entries []types.PortfolioEntry
	loaded  bool
	group   singleflight.Group
}

// New creates a Portfolio backed by the file at path, or the embedded default when path is empty.
func New(path string) *Portfolio {
	return &Portfolio{Path: path, MaxLinks: DefaultMaxLinks}
}

// Load reads the portfolio table into memory. It is a no-op once a load has succeeded,
// and concurrent first calls share a single read.
func (p *Portfolio) Load(ctx context.Context) error {
	if p.isLoaded() {
		return nil
	}

	ch := p.group.DoChan("load", func() (interface{}, error) {
		if p.isLoaded() {
			return nil, nil
		}

		entries, err := p.read()
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.entries = entries
		p.loaded = true
		p.mu.Unlock()
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (p *Portfolio) isLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

func (p *Portfolio) read() ([]types.PortfolioEntry, error) {
	if p.Path == "" {
		return Parse(defaultPortfolio, FormatCSV)
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file: %w", err)
	}

	entries, err := Parse(data, FormatFromPath(p.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse portfolio %s: %w", p.Path, err)
	}
	return entries, nil
}

// Entries returns a copy of the loaded entries.
func (p *Portfolio) Entries() []types.PortfolioEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]types.PortfolioEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// FormatFromPath picks the portfolio format from a file extension. Anything that
// is not .yaml or .yml is read as CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Parse decodes portfolio entries in the given format.
func Parse(data []byte, format Format) ([]types.PortfolioEntry, error) {
	var (
		entries []types.PortfolioEntry
		err     error
	)
	switch format {
	case FormatYAML:
		entries, err = parseYAML(data)
	case FormatCSV:
		entries, err = parseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported portfolio format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// parseCSV reads a Techstack,Links table. The Techstack cell is a comma separated skill list.
func parseCSV(r io.Reader) ([]types.PortfolioEntry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	skillsCol, linkCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "techstack", "skills":
			skillsCol = i
		case "links", "link":
			linkCol = i
		}
	}
	if skillsCol < 0 || linkCol < 0 {
		return nil, fmt.Errorf("CSV header must contain Techstack and Links columns, got %v", header)
	}

	var entries []types.PortfolioEntry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if skillsCol >= len(record) || linkCol >= len(record) {
			continue
		}

		entry := types.PortfolioEntry{
			Skills: splitSkills(record[skillsCol]),
			Link:   strings.TrimSpace(record[linkCol]),
		}
		if entry.Link == "" || len(entry.Skills) == 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseYAML(data []byte) ([]types.PortfolioEntry, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML portfolio: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode YAML portfolio: %w", err)
	}
	if err := schemas.ValidatePortfolio(string(asJSON)); err != nil {
		return nil, err
	}

	var raw []types.PortfolioEntry
	if err := json.Unmarshal(asJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode YAML portfolio: %w", err)
	}

	entries := make([]types.PortfolioEntry, 0, len(raw))
	for _, e := range raw {
		e.Link = strings.TrimSpace(e.Link)
		e.Skills = skills.NormalizeNames(e.Skills)
		if e.Link == "" || len(e.Skills) == 0 {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func splitSkills(cell string) []string {
	return skills.NormalizeNames(strings.Split(cell, ","))
}
