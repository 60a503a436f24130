// Package proposal turns LLM change suggestions into pending,
// reviewable proposals and applies them to the codebase on approval,
// backing up the whole tree first.
package proposal

import (
	"fmt"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// Error types
var (
	ErrNotFound  = fmt.Errorf("proposal not found")
	ErrNoChanges = fmt.Errorf("proposal has no changes to apply")
)

// Modification replaces the content of a file already in the catalog.
type Modification struct {
	Path            string
	OriginalContent string
	NewContent      string
	Diff            string
}

// Creation writes a file the catalog has no content for.
type Creation struct {
	Path    string
	Content string
}

// Proposal is a pending set of file changes awaiting approval.
type Proposal struct {
	ID          string
	Description string
	Suggestion  string // full LLM answer the changes were parsed from
	Modify      []Modification
	Create      []Creation
	CreatedAt   time.Time
}

// ChangeCount returns how many file changes the proposal carries.
func (p *Proposal) ChangeCount() int {
	return len(p.Modify) + len(p.Create)
}

// Summary is the listing view of one pending proposal.
type Summary struct {
	ID          string
	Description string
	CreatedAt   time.Time
	ModifyCount int
	CreateCount int
}

// ApplyResult reports the outcome of approving a proposal. Errors
// holds per-file failures; the proposal is deleted only when it is
// empty.
type ApplyResult struct {
	ModifiedFiles []string
	CreatedFiles  []string
	Errors        []string
	BackupDir     string
	Applied       bool
}

// unifiedDiff renders a unified diff between two file versions.
func unifiedDiff(original, updated, path string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(updated),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
