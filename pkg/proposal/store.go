package proposal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ternarybob/scout/internal/fileutil"
	"github.com/ternarybob/scout/pkg/catalog"
)

// Store holds pending proposals keyed by id. Approval mutates the
// catalog and the filesystem together.
type Store struct {
	mu        sync.RWMutex
	cat       *catalog.Catalog
	proposals map[string]*Proposal
}

// NewStore creates an empty proposal store over cat.
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{
		cat:       cat,
		proposals: make(map[string]*Proposal),
	}
}

// Propose parses an LLM suggestion into a pending proposal. Blocks
// naming a file with loaded content become modifications with a diff
// against that content; the rest become creations. The proposal is
// registered even when no blocks were found, so it can still be
// listed and rejected.
func (s *Store) Propose(description, suggestion string) *Proposal {
	p := &Proposal{
		ID:          uuid.NewString(),
		Description: description,
		Suggestion:  suggestion,
		CreatedAt:   time.Now(),
	}

	for _, block := range ExtractFileBlocks(suggestion) {
		if rec, ok := s.cat.Content(block.Path); ok {
			p.Modify = append(p.Modify, Modification{
				Path:            block.Path,
				OriginalContent: rec.Content,
				NewContent:      block.Content,
				Diff:            unifiedDiff(rec.Content, block.Content, block.Path),
			})
		} else {
			p.Create = append(p.Create, Creation{
				Path:    block.Path,
				Content: block.Content,
			})
		}
	}

	s.mu.Lock()
	s.proposals[p.ID] = p
	s.mu.Unlock()
	return p
}

// List returns pending proposals ordered oldest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.proposals))
	for _, p := range s.proposals {
		summaries = append(summaries, Summary{
			ID:          p.ID,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			ModifyCount: len(p.Modify),
			CreateCount: len(p.Create),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// Len returns the number of pending proposals.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proposals)
}

// Details returns the full proposal for id.
func (s *Store) Details(id string) (*Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Reject removes a pending proposal without applying it.
func (s *Store) Reject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proposals[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.proposals, id)
	return nil
}

// Approve applies the proposal's changes to disk and the catalog. The
// whole catalog root is backed up first; a backup failure aborts the
// approval with nothing applied. Per-file write failures are collected
// and reported without stopping the remaining files. With zero errors
// the proposal is deleted, otherwise it is retained for another
// attempt.
func (s *Store) Approve(id string) (*ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	p, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if p.ChangeCount() == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNoChanges)
	}

	backupDir, err := s.backup()
	if err != nil {
		return nil, fmt.Errorf("backup failed, no changes applied: %w", err)
	}

	result := &ApplyResult{BackupDir: backupDir}

	for _, m := range p.Modify {
		abs := filepath.Join(s.cat.Root(), filepath.FromSlash(m.Path))
		if err := os.WriteFile(abs, []byte(m.NewContent), 0644); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error modifying %s: %v", m.Path, err))
			continue
		}
		s.cat.UpsertContent(m.Path, m.NewContent)
		result.ModifiedFiles = append(result.ModifiedFiles, m.Path)
	}

	for _, c := range p.Create {
		abs := filepath.Join(s.cat.Root(), filepath.FromSlash(c.Path))
		if err := fileutil.WriteFile(abs, []byte(c.Content)); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error creating %s: %v", c.Path, err))
			continue
		}
		s.cat.UpsertContent(c.Path, c.Content)
		result.CreatedFiles = append(result.CreatedFiles, c.Path)
	}

	if len(result.Errors) == 0 {
		delete(s.proposals, id)
		result.Applied = true
	}
	return result, nil
}

// backup copies the catalog root to a timestamped directory under the
// system temp location, skipping the scan ignore dirs.
func (s *Store) backup() (string, error) {
	stamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(os.TempDir(), "scout-backup-"+stamp)
	if err := fileutil.CopyTree(s.cat.Root(), dir, catalog.DefaultIgnoreDirs); err != nil {
		return "", err
	}
	return dir, nil
}
