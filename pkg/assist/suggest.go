package assist

import (
	"context"

	"github.com/ternarybob/scout/pkg/catalog"
	"github.com/ternarybob/scout/pkg/proposal"
	"github.com/ternarybob/scout/pkg/query"
)

// SuggestFeature asks for an implementation plan for the described
// feature and files any suggested file changes as a pending proposal.
func (s *Session) SuggestFeature(ctx context.Context, feature string) (*proposal.Proposal, error) {
	if !s.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	records := s.contextRecords(ctx, feature, query.DefaultRelevantLimit)
	prompt := buildSuggestPrompt(feature, s.summarySnapshot(), records)

	text, err := s.completer.Complete(ctx, suggestSystem, prompt, s.suggestTemp)
	if err != nil {
		return nil, err
	}

	prop := s.store.Propose(feature, text)
	s.log.Info().
		Str("id", prop.ID).
		Int("changes", prop.ChangeCount()).
		Msg("feature suggestion recorded")
	return prop, nil
}

// contextRecords picks the files quoted in a suggestion prompt:
// semantic hits first, keyword relevance next, and the largest files
// when nothing matched at all.
func (s *Session) contextRecords(ctx context.Context, q string, limit int) []*catalog.ContentRecord {
	seen := make(map[string]bool)
	var out []*catalog.ContentRecord
	add := func(rec *catalog.ContentRecord) {
		if rec == nil || seen[rec.Path] || len(out) >= limit {
			return
		}
		seen[rec.Path] = true
		out = append(out, rec)
	}

	if s.vectors != nil {
		for _, path := range s.vectors.relevantPaths(ctx, s.cat, q, limit) {
			if rec, ok := s.cat.Content(path); ok {
				add(rec)
			}
		}
	}
	for _, hit := range s.eng.Relevant(q, limit) {
		add(hit.Record)
	}
	if len(out) == 0 {
		for _, rec := range topByLines(s.cat, limit) {
			add(rec)
		}
	}
	return out
}
