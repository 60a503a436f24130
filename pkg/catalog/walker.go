package catalog

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanOptions control directory traversal.
type ScanOptions struct {
	// IgnoreDirs are directory names pruned at any depth. A nil slice
	// means DefaultIgnoreDirs.
	IgnoreDirs []string

	// MaxDepth limits how many directory levels below the root are
	// visited. Zero or negative means unlimited.
	MaxDepth int

	// MaxFileSize caps content loading. Files above the cap keep
	// their metadata record but no content. Zero or negative means
	// DefaultMaxFileSize.
	MaxFileSize int64
}

// DefaultScanOptions returns the options used when none are given.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		IgnoreDirs:  DefaultIgnoreDirs,
		MaxFileSize: DefaultMaxFileSize,
	}
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.IgnoreDirs == nil {
		o.IgnoreDirs = DefaultIgnoreDirs
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	return o
}

// Walker traverses a directory tree applying the ignore and depth
// rules of ScanOptions.
type Walker struct {
	opts   ScanOptions
	ignore map[string]bool
}

// NewWalker creates a walker for the given options.
func NewWalker(opts ScanOptions) *Walker {
	opts = opts.withDefaults()
	ignore := make(map[string]bool, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[d] = true
	}
	return &Walker{opts: opts, ignore: ignore}
}

// WalkFunc is called for every directory and regular file that
// survives pruning. rel is the slash-separated path relative to the
// walk root, "" for the root itself.
type WalkFunc func(rel string, entry fs.DirEntry) error

// Walk traverses root in lexical order and calls fn for each entry.
// Unreadable entries are skipped.
func (w *Walker) Walk(root string, fn WalkFunc) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = normalizeRel(rel)

		if d.IsDir() {
			if rel != "" && w.ignore[d.Name()] {
				return filepath.SkipDir
			}
			if w.opts.MaxDepth > 0 && dirLevel(rel) > w.opts.MaxDepth {
				return filepath.SkipDir
			}
			return fn(rel, d)
		}

		if !d.Type().IsRegular() {
			return nil
		}
		return fn(rel, d)
	})
}

// normalizeRel converts filepath.Rel output to the catalog's relative
// form: slash separated, "" for the root.
func normalizeRel(rel string) string {
	if rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// dirLevel counts how many levels below the root a directory sits.
// The root itself is level zero.
func dirLevel(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
