// Package assist ties the catalog, query engine, proposal store, and
// LLM client together into one interactive assistant session: scans,
// project summaries, file analysis, feature suggestions, and chat.
package assist

import (
	"context"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scout/internal/logger"
	"github.com/ternarybob/scout/pkg/assist/schema"
	"github.com/ternarybob/scout/pkg/catalog"
	"github.com/ternarybob/scout/pkg/llm"
	"github.com/ternarybob/scout/pkg/proposal"
	"github.com/ternarybob/scout/pkg/query"
)

// Default sampling temperatures: low for factual analysis, slightly
// higher for implementation suggestions.
const (
	DefaultAnalysisTemperature   = 0.1
	DefaultSuggestionTemperature = 0.2
)

const summaryErrorText = "Error generating project summary."

// Options configure a Session. The zero value works: scans use the
// default ignore and size rules, the LLM client is built from the
// environment, and models are extracted with the Go extractor.
type Options struct {
	Completer             llm.Completer
	Scan                  catalog.ScanOptions
	AnalysisTemperature   float64
	SuggestionTemperature float64
	Extractors            []schema.Extractor
	Logger                arbor.ILogger

	// DisableVectors turns off the embedding index so relevance
	// ranking falls back to keyword scoring only.
	DisableVectors bool
}

// Session owns the mutable state of one assistant instance. Commands
// run one at a time; the caches still lock so a second session or a
// test harness can share nothing by accident.
type Session struct {
	log arbor.ILogger

	cat   *catalog.Catalog
	cur   *catalog.Cursor
	eng   *query.Engine
	store *proposal.Store

	completer  llm.Completer
	extractors []schema.Extractor

	scanOpts     catalog.ScanOptions
	analysisTemp float64
	suggestTemp  float64

	mu            sync.Mutex
	summary       string
	fileSummaries map[string]string
	vectors       *vectorIndex
	vectorsOn     bool
}

// New creates a session. Only ScanCodebase works until a scan succeeds.
func New(opts Options) *Session {
	if opts.Completer == nil {
		opts.Completer = llm.NewGuard(
			llm.NewGeminiClient(llm.DefaultConfig()),
			llm.NewRateLimiter(0, 0),
			llm.NewCircuitBreaker(llm.CircuitBreakerConfig{}),
		)
	}
	if opts.AnalysisTemperature <= 0 {
		opts.AnalysisTemperature = DefaultAnalysisTemperature
	}
	if opts.SuggestionTemperature <= 0 {
		opts.SuggestionTemperature = DefaultSuggestionTemperature
	}
	if opts.Extractors == nil {
		opts.Extractors = []schema.Extractor{schema.GoExtractor{}}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	cat := catalog.New()
	cur := catalog.NewCursor(cat)
	s := &Session{
		log:           opts.Logger,
		cat:           cat,
		cur:           cur,
		eng:           query.NewEngine(cat, cur),
		store:         proposal.NewStore(cat),
		completer:     opts.Completer,
		extractors:    opts.Extractors,
		scanOpts:      opts.Scan,
		analysisTemp:  opts.AnalysisTemperature,
		suggestTemp:   opts.SuggestionTemperature,
		fileSummaries: make(map[string]string),
		vectorsOn:     !opts.DisableVectors,
	}
	if s.vectorsOn {
		s.vectors = newVectorIndex()
	}
	return s
}

// Catalog exposes the scanned file catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Cursor exposes the navigation cursor.
func (s *Session) Cursor() *catalog.Cursor { return s.cur }

// Engine exposes the query engine.
func (s *Session) Engine() *query.Engine { return s.eng }

// Proposals exposes the pending edit proposals.
func (s *Session) Proposals() *proposal.Store { return s.store }

// ScanCodebase scans root, resets navigation and caches, and
// generates a fresh project summary. Summary generation failures are
// logged and leave a placeholder; they never fail the scan.
func (s *Session) ScanCodebase(ctx context.Context, root string) (*catalog.Summary, error) {
	summary, err := s.cat.Scan(root, s.scanOpts)
	if err != nil {
		return nil, err
	}
	s.cur.Reset()
	s.resetCaches()

	s.log.Info().
		Str("root", s.cat.Root()).
		Int("files", summary.TotalFiles).
		Int("analyzed", summary.FilesAnalyzed).
		Msg("scan complete")

	s.generateProjectSummary(ctx)
	return summary, nil
}

// ProjectSummary returns the cached project summary, generating one
// when the session does not have it yet.
func (s *Session) ProjectSummary(ctx context.Context) (string, error) {
	if !s.cat.Scanned() {
		return "", catalog.ErrNotScanned
	}
	if text := s.summarySnapshot(); text != "" {
		return text, nil
	}
	s.generateProjectSummary(ctx)
	return s.summarySnapshot(), nil
}

func (s *Session) generateProjectSummary(ctx context.Context) {
	prompt := buildSummaryPrompt(s.cat)
	text, err := s.completer.Complete(ctx, summarySystem, prompt, s.analysisTemp)
	if err != nil {
		s.log.Warn().Err(err).Msg("project summary generation failed")
		s.setSummary(summaryErrorText)
		return
	}
	s.setSummary(text)
	s.log.Info().Msg("generated project summary")
}

func (s *Session) summarySnapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Session) setSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = text
}

func (s *Session) resetCaches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = ""
	s.fileSummaries = make(map[string]string)
	if s.vectorsOn {
		s.vectors = newVectorIndex()
	}
}

func (s *Session) cachedAnalysis(rel string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.fileSummaries[rel]
	return text, ok
}

func (s *Session) cacheAnalysis(rel, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileSummaries[rel] = text
}

// topByLines returns the n largest content records by line count,
// ties broken by path so output is stable.
func topByLines(cat *catalog.Catalog, n int) []*catalog.ContentRecord {
	recs := cat.AllContents()
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Lines != recs[j].Lines {
			return recs[i].Lines > recs[j].Lines
		}
		return recs[i].Path < recs[j].Path
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
