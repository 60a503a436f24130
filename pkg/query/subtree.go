package query

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/scout/pkg/catalog"
)

// SubtreeStats summarizes the catalog entries under one directory.
type SubtreeStats struct {
	Target         string // relative path, "/" for the root
	FileCount      int
	DirectoryCount int
	MaxDepth       int // directory levels below the target
	Files          []FileHit
	Directories    []string
}

// ScanSubtree reports the files already cataloged under target. An
// empty target means the cursor's directory. maxDepth limits how many
// levels below the target are included, zero or negative meaning all.
func (e *Engine) ScanSubtree(target string, maxDepth int) (*SubtreeStats, error) {
	if !e.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	abs := target
	switch {
	case target == "":
		abs = e.cur.Current()
	case !filepath.IsAbs(target):
		abs = filepath.Join(e.cur.Current(), filepath.FromSlash(target))
	}
	abs = filepath.Clean(abs)
	if !e.cat.Contains(abs) {
		return nil, fmt.Errorf("%s: %w", target, catalog.ErrOutOfScope)
	}
	if fi, err := os.Stat(abs); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", target, catalog.ErrNotFound)
	}

	rel, err := filepath.Rel(e.cat.Root(), abs)
	if err != nil {
		return nil, err
	}
	if rel == "." {
		rel = ""
	}
	rel = filepath.ToSlash(rel)

	stats := &SubtreeStats{Target: rel}
	if rel == "" {
		stats.Target = "/"
	}

	dirs := make(map[string]bool)
	for _, rec := range e.cat.AllFiles() {
		inside := rel + "/"
		if rel != "" && !strings.HasPrefix(rec.Path, inside) {
			continue
		}
		below := rec.Path
		if rel != "" {
			below = strings.TrimPrefix(rec.Path, inside)
		}
		depth := strings.Count(below, "/")
		if maxDepth > 0 && depth+1 > maxDepth {
			continue
		}

		stats.Files = append(stats.Files, FileHit{
			Path:      rec.Path,
			Extension: rec.Extension,
			Size:      rec.Size,
			ModTime:   rec.ModTime,
		})
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		dirs[parentDir(rec.Path)] = true
	}

	for dir := range dirs {
		stats.Directories = append(stats.Directories, dir)
	}
	sort.Strings(stats.Directories)
	sort.SliceStable(stats.Directories, func(i, j int) bool {
		return strings.Count(stats.Directories[i], "/") < strings.Count(stats.Directories[j], "/")
	})

	stats.FileCount = len(stats.Files)
	stats.DirectoryCount = len(stats.Directories)
	return stats, nil
}

// DirStats summarizes one directory for the auto scan report.
type DirStats struct {
	Path       string // "" is the root
	FileCount  int
	Extensions []string
	Depth      int
}

// TreeStats is the outcome of AutoScan across the whole tree.
type TreeStats struct {
	ScannedDirectories int
	TotalDirectories   int
	SkippedDirectories int
	Extensions         []string
	Directories        []DirStats
}

// AutoScan walks every known directory shallow to deep, counting its
// immediate files and their extensions. Directories missing from the
// live filesystem are skipped. maxDepth of zero or below means
// unlimited.
func (e *Engine) AutoScan(maxDepth int) (*TreeStats, error) {
	if !e.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	paths := e.cat.Tree().DirPaths()
	if maxDepth > 0 {
		kept := paths[:0]
		for _, dir := range paths {
			if strings.Count(dir, "/") <= maxDepth {
				kept = append(kept, dir)
			}
		}
		paths = kept
	}

	// Group files by their containing directory once
	byDir := make(map[string][]*catalog.FileRecord)
	for _, rec := range e.cat.AllFiles() {
		dir := parentDir(rec.Path)
		byDir[dir] = append(byDir[dir], rec)
	}

	stats := &TreeStats{TotalDirectories: len(paths)}
	allExts := make(map[string]bool)

	for _, dir := range paths {
		if fi, err := os.Stat(e.cat.Abs(dir)); err != nil || !fi.IsDir() {
			stats.SkippedDirectories++
			continue
		}

		exts := make(map[string]bool)
		for _, rec := range byDir[dir] {
			if rec.Extension != "" {
				exts[rec.Extension] = true
				allExts[rec.Extension] = true
			}
		}

		stats.Directories = append(stats.Directories, DirStats{
			Path:       dir,
			FileCount:  len(byDir[dir]),
			Extensions: sortedKeys(exts),
			Depth:      strings.Count(dir, "/"),
		})
		stats.ScannedDirectories++
	}

	stats.Extensions = sortedKeys(allExts)
	return stats, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
