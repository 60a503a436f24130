package query

import (
	"sort"
	"strings"

	"github.com/ternarybob/scout/pkg/catalog"
)

// ScoredFile pairs a content record with its relevance score.
type ScoredFile struct {
	Record *catalog.ContentRecord
	Score  float64
}

// DefaultRelevantLimit is how many files Relevant returns when no
// limit is given.
const DefaultRelevantLimit = 5

// Relevant ranks loaded files against a free-text query. Each
// lowercase term contributes: basename hit 100, path hit 50, content
// hit 80 for files over 500 bytes. File size breaks ties. Files with
// no term hits are excluded.
func (e *Engine) Relevant(query string, limit int) []ScoredFile {
	if limit <= 0 {
		limit = DefaultRelevantLimit
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var scored []ScoredFile
	for _, rec := range e.cat.AllContents() {
		score := scoreRecord(rec, terms)
		if score <= 0 {
			continue
		}
		scored = append(scored, ScoredFile{
			Record: rec,
			Score:  score + float64(rec.Size)/1000,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.Path < scored[j].Record.Path
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func scoreRecord(rec *catalog.ContentRecord, terms []string) float64 {
	base := strings.ToLower(baseName(rec.Path))
	path := strings.ToLower(rec.Path)
	content := strings.ToLower(rec.Content)

	var score float64
	for _, term := range terms {
		if strings.Contains(base, term) {
			score += 100
		}
		if strings.Contains(path, term) {
			score += 50
		}
		if rec.Size > 500 && strings.Contains(content, term) {
			score += 80
		}
	}
	return score
}

// entrypointNames are basenames that mark a file as central to a
// project regardless of size.
var entrypointNames = map[string]bool{
	"main.py": true, "app.py": true, "index.js": true, "app.js": true,
	"main.js": true, "settings.py": true, "config.py": true,
	"package.json": true, "readme.md": true, "dockerfile": true,
	"docker-compose.yml": true, "makefile": true, "setup.py": true,
}

// coreSuffixes mark likely business-logic files.
var coreSuffixes = []string{"models.py", "views.py", "controllers.py", "service.py"}

// ImportantFile is one candidate for automatic analysis.
type ImportantFile struct {
	Path  string
	Size  int
	Lines int
	Score float64
}

// Important ranks loaded files by how much an automatic analysis pass
// should care about them. Files smaller than minSize are skipped; the
// first matching rule decides the score: well-known entrypoint or
// config basename 100, top-level file 50, size over 5000 bytes
// size/1000, core-logic suffix 80.
func (e *Engine) Important(minSize int) []ImportantFile {
	var important []ImportantFile

	for _, rec := range e.cat.AllContents() {
		if rec.Size < minSize {
			continue
		}

		base := strings.ToLower(baseName(rec.Path))
		var score float64
		switch {
		case entrypointNames[base]:
			score = 100
		case rec.Depth == 0:
			score = 50
		case rec.Size > 5000:
			score = float64(rec.Size) / 1000
		case hasAnySuffix(base, coreSuffixes):
			score = 80
		default:
			continue
		}

		important = append(important, ImportantFile{
			Path:  rec.Path,
			Size:  rec.Size,
			Lines: rec.Lines,
			Score: score,
		})
	}

	sort.SliceStable(important, func(i, j int) bool {
		if important[i].Score != important[j].Score {
			return important[i].Score > important[j].Score
		}
		return important[i].Path < important[j].Path
	})
	return important
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
