package assist

import (
	"sort"

	"github.com/ternarybob/scout/pkg/assist/schema"
	"github.com/ternarybob/scout/pkg/catalog"
)

// Models extracts data-model definitions from every file matching a
// registered extractor convention. Files that fail to load or parse
// carry their error in the report instead of failing the whole run.
func (s *Session) Models() (*schema.Report, error) {
	if !s.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	files := s.cat.AllFiles()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	report := &schema.Report{}
	for _, file := range files {
		extractor := s.extractorFor(file.Path)
		if extractor == nil {
			continue
		}

		entry := schema.FileModels{Path: file.Path}
		rec, err := s.cat.EnsureContent(file.Path)
		if err != nil {
			entry.Err = err.Error()
		} else if models, err := extractor.Extract(file.Path, rec.Content); err != nil {
			entry.Err = err.Error()
		} else {
			entry.Models = models
			report.Count += len(models)
		}
		report.Files = append(report.Files, entry)
	}
	return report, nil
}

func (s *Session) extractorFor(path string) schema.Extractor {
	for _, extractor := range s.extractors {
		if extractor.Matches(path) {
			return extractor
		}
	}
	return nil
}
