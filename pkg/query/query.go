// Package query implements read-only lookups over a scanned catalog:
// substring search, glob file finding, extension reports, and subtree
// statistics. Nothing here mutates the catalog beyond the sanctioned
// lazy content load.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/scout/pkg/catalog"
)

// Scope labels describing what a search or find covered.
const (
	ScopeCodebase   = "entire codebase"
	ScopeCurrentDir = "current directory"
)

// Engine answers queries against a catalog, using the cursor to scope
// directory-relative operations.
type Engine struct {
	cat *catalog.Catalog
	cur *catalog.Cursor
}

// NewEngine creates a query engine over cat scoped by cur.
func NewEngine(cat *catalog.Catalog, cur *catalog.Cursor) *Engine {
	return &Engine{cat: cat, cur: cur}
}

// ContextLine is one line of surrounding context, numbered from 1.
type ContextLine struct {
	Number int
	Text   string
}

// SearchMatch is a single occurrence of the query within a line.
// Start and End are character offsets into Line.
type SearchMatch struct {
	LineNumber int
	Line       string
	Start      int
	End        int
	Before     []ContextLine
	After      []ContextLine
}

// FileMatches groups the matches found in one file. MatchCount is the
// full count even when Matches was capped.
type FileMatches struct {
	Path       string
	Language   string
	MatchCount int
	Matches    []SearchMatch
}

// SearchResults aggregates a search across the catalog.
type SearchResults struct {
	Query            string
	TotalMatches     int
	FilesWithMatches int
	Scope            string
	Files            []FileMatches
}

// maxMatchesPerFile caps how many matches are reported for one file.
const maxMatchesPerFile = 10

// Search runs a case-insensitive literal search over loaded content.
// Special characters in query are escaped, never treated as regex
// syntax. With allFiles false only files under the cursor's directory
// are searched. Zero matches is a success with empty results.
func (e *Engine) Search(query string, contextLines int, allFiles bool) (*SearchResults, error) {
	if !e.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is empty")
	}

	scope := ScopeCodebase
	prefix := ""
	if !allFiles {
		scope = ScopeCurrentDir
		if rel := e.cur.CurrentRel(); rel != "" {
			prefix = rel + "/"
		}
	}

	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	results := &SearchResults{Query: query, Scope: scope}

	for _, rec := range e.cat.AllContents() {
		if prefix != "" && !strings.HasPrefix(rec.Path, prefix) {
			continue
		}

		lines := splitLines(rec.Content)
		var matches []SearchMatch
		count := 0

		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			for _, loc := range pattern.FindAllStringIndex(trimmed, -1) {
				count++
				if len(matches) >= maxMatchesPerFile {
					continue
				}
				m := SearchMatch{
					LineNumber: i + 1,
					Line:       trimmed,
					Start:      loc[0],
					End:        loc[1],
				}
				if contextLines > 0 {
					m.Before, m.After = contextAround(lines, i, contextLines)
				}
				matches = append(matches, m)
			}
		}

		if count > 0 {
			results.TotalMatches += count
			results.Files = append(results.Files, FileMatches{
				Path:       rec.Path,
				Language:   rec.Language,
				MatchCount: count,
				Matches:    matches,
			})
		}
	}

	results.FilesWithMatches = len(results.Files)
	return results, nil
}

// contextAround collects up to n numbered lines on each side of index
// i.
func contextAround(lines []string, i, n int) (before, after []ContextLine) {
	start := i - n
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		before = append(before, ContextLine{Number: j + 1, Text: lines[j]})
	}

	end := i + n + 1
	if end > len(lines) {
		end = len(lines)
	}
	for j := i + 1; j < end; j++ {
		after = append(after, ContextLine{Number: j + 1, Text: lines[j]})
	}
	return before, after
}

// splitLines splits content on newlines without producing a phantom
// empty final line for newline-terminated content.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
