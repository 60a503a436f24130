package assist

import (
	"context"
	"path/filepath"

	"github.com/ternarybob/scout/pkg/catalog"
)

// AutoAnalyze defaults: how many files to walk through and how small
// a file can be before it is not worth a call.
const (
	DefaultAutoAnalyzeFiles   = 10
	DefaultAutoAnalyzeMinSize = 500
)

// FileAnalysis is the outcome of analyzing one file. Err is set when
// the analysis failed; the batch kept going.
type FileAnalysis struct {
	Path     string
	Size     int
	Lines    int
	Analysis string
	Err      string
}

// AutoAnalysis collects the results of an automatic analysis pass.
type AutoAnalysis struct {
	Files []FileAnalysis
}

// AnalyzeFile explains one file, loading it on demand when the scan
// did not capture it. The result is cached per path so repeated
// requests are free until the next scan.
func (s *Session) AnalyzeFile(ctx context.Context, path string) (string, error) {
	if !s.cat.Scanned() {
		return "", catalog.ErrNotScanned
	}

	// A catalog hit serves stale-on-disk files from memory.
	rel := filepath.ToSlash(path)
	if _, ok := s.cat.Content(rel); !ok {
		resolved, err := s.cat.ResolveFile(path, s.cur.Current())
		if err != nil {
			return "", err
		}
		rel = resolved
	}

	if cached, ok := s.cachedAnalysis(rel); ok {
		return cached, nil
	}

	rec, err := s.cat.EnsureContent(rel)
	if err != nil {
		return "", err
	}

	text, err := s.completer.Complete(ctx, analyzeSystem, buildAnalyzePrompt(rec), s.analysisTemp)
	if err != nil {
		return "", err
	}
	s.cacheAnalysis(rel, text)
	s.log.Info().Str("path", rel).Msg("analyzed file")
	return text, nil
}

// AutoAnalyze scores every content record by importance and analyzes
// the top maxFiles of at least minSize bytes. Per-file failures are
// recorded and do not stop the batch; cancellation does.
func (s *Session) AutoAnalyze(ctx context.Context, maxFiles, minSize int) (*AutoAnalysis, error) {
	if !s.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}
	if maxFiles <= 0 {
		maxFiles = DefaultAutoAnalyzeFiles
	}
	if minSize <= 0 {
		minSize = DefaultAutoAnalyzeMinSize
	}

	important := s.eng.Important(minSize)
	if len(important) > maxFiles {
		important = important[:maxFiles]
	}

	out := &AutoAnalysis{}
	for _, file := range important {
		s.log.Info().Str("path", file.Path).Msg("auto-analyzing")
		result := FileAnalysis{Path: file.Path, Size: file.Size, Lines: file.Lines}

		text, err := s.AnalyzeFile(ctx, file.Path)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			result.Err = err.Error()
		} else {
			result.Analysis = text
		}
		out.Files = append(out.Files, result)
	}
	return out, nil
}
