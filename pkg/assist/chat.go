package assist

import (
	"context"

	"github.com/ternarybob/scout/pkg/catalog"
	"github.com/ternarybob/scout/pkg/query"
)

// Chat answers a free-form question with project statistics, the key
// files, and the current directory as context.
func (s *Session) Chat(ctx context.Context, input string) (string, error) {
	if !s.cat.Scanned() {
		return "", catalog.ErrNotScanned
	}
	prompt := buildChatPrompt(s.cat, s.cur.CurrentRel(), s.summarySnapshot(), input)
	return s.completer.Complete(ctx, chatSystem, prompt, s.analysisTemp)
}

// ContextFor searches all scanned content for q with n context lines
// around every match.
func (s *Session) ContextFor(q string, n int) (*query.SearchResults, error) {
	return s.eng.Search(q, n, true)
}
