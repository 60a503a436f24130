// Package catalog maintains the in-memory model of a scanned codebase:
// metadata for every file, loaded text content, and the directory tree
// used for navigation.
package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Catalog holds everything a scan discovered. A rescan replaces the
// maps wholesale; the lazy loaders and approval updates mutate
// individual entries.
type Catalog struct {
	mu sync.RWMutex

	root     string
	files    map[string]*FileRecord
	contents map[string]*ContentRecord
	tree     *Tree
	exts     map[string]bool
	maxDepth int
}

// New creates an empty catalog. Nothing works until Scan succeeds.
func New() *Catalog {
	return &Catalog{
		files:    make(map[string]*FileRecord),
		contents: make(map[string]*ContentRecord),
		tree:     NewTree(),
		exts:     make(map[string]bool),
	}
}

// Scan walks root and rebuilds the catalog from scratch. Content is
// loaded for recognized text files within the size cap; every other
// file keeps a metadata record only.
func (c *Catalog) Scan(root string, opts ScanOptions) (*Summary, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", root, ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, ErrNotFound)
	}

	opts = opts.withDefaults()
	files := make(map[string]*FileRecord)
	contents := make(map[string]*ContentRecord)
	tree := NewTree()
	exts := make(map[string]bool)

	walker := NewWalker(opts)
	err = walker.Walk(abs, func(rel string, entry fs.DirEntry) error {
		if entry.IsDir() {
			tree.insert(rel)
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			return nil
		}
		ext := ExtensionOf(entry.Name())
		if ext != "" {
			exts[ext] = true
		}
		files[rel] = &FileRecord{
			Path:      rel,
			Extension: ext,
			Size:      fi.Size(),
			ModTime:   fi.ModTime(),
		}
		tree.insertFile(rel)

		if !IsTextExtension(ext) || fi.Size() > opts.MaxFileSize {
			return nil
		}
		data, err := os.ReadFile(filepath.Join(abs, filepath.FromSlash(rel)))
		if err != nil {
			return nil
		}
		text := strings.ToValidUTF8(string(data), "�")
		contents[rel] = &ContentRecord{
			Path:     rel,
			Content:  text,
			Language: ext,
			Size:     len(text),
			Lines:    CountLines(text),
			Depth:    pathDepth(rel),
			ModTime:  fi.ModTime(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	maxDepth := 0
	for _, rec := range contents {
		if rec.Depth > maxDepth {
			maxDepth = rec.Depth
		}
	}

	c.mu.Lock()
	c.root = abs
	c.files = files
	c.contents = contents
	c.tree = tree
	c.exts = exts
	c.maxDepth = maxDepth
	c.mu.Unlock()

	return c.buildSummary(), nil
}

func (c *Catalog) buildSummary() *Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	paths := make([]string, 0, len(c.files))
	for rel := range c.files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	byExt := make(map[string]*ExtensionStat)
	for _, rel := range paths {
		rec := c.files[rel]
		if rec.Extension == "" {
			continue
		}
		stat, ok := byExt[rec.Extension]
		if !ok {
			stat = &ExtensionStat{Extension: rec.Extension}
			byExt[rec.Extension] = stat
		}
		stat.Count++
		stat.TotalSize += rec.Size
		if len(stat.Examples) < 5 {
			stat.Examples = append(stat.Examples, rel)
		}
	}

	stats := make([]ExtensionStat, 0, len(byExt))
	for _, stat := range byExt {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Extension < stats[j].Extension
	})

	return &Summary{
		FilesAnalyzed: len(c.contents),
		TotalFiles:    len(c.files),
		MaxDepth:      c.maxDepth,
		Extensions:    c.extensionsLocked(),
		Stats:         stats,
	}
}

// Scanned reports whether a scan has completed.
func (c *Catalog) Scanned() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root != ""
}

// Root returns the absolute path of the scanned codebase, or "" when
// nothing was scanned.
func (c *Catalog) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Tree returns the directory structure from the last scan.
func (c *Catalog) Tree() *Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree
}

// MaxDepth returns the deepest nesting level among loaded files.
func (c *Catalog) MaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxDepth
}

// FileCount returns the number of files known to the catalog.
func (c *Catalog) FileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// ContentCount returns the number of files with loaded content.
func (c *Catalog) ContentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.contents)
}

// Extensions returns every extension seen during scanning, sorted.
func (c *Catalog) Extensions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extensionsLocked()
}

func (c *Catalog) extensionsLocked() []string {
	exts := make([]string, 0, len(c.exts))
	for ext := range c.exts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// File returns the metadata record at rel.
func (c *Catalog) File(rel string) (*FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.files[rel]
	return rec, ok
}

// Content returns the content record at rel, if loaded.
func (c *Catalog) Content(rel string) (*ContentRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.contents[rel]
	return rec, ok
}

// AllFiles returns every metadata record sorted by path.
func (c *Catalog) AllFiles() []*FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs := make([]*FileRecord, 0, len(c.files))
	for _, rec := range c.files {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
	return recs
}

// AllContents returns every content record sorted by path.
func (c *Catalog) AllContents() []*ContentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs := make([]*ContentRecord, 0, len(c.contents))
	for _, rec := range c.contents {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
	return recs
}

// Abs converts a catalog-relative path to an absolute one.
func (c *Catalog) Abs(rel string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filepath.Join(c.root, filepath.FromSlash(rel))
}

// Contains reports whether an absolute path sits inside the scanned
// root.
func (c *Catalog) Contains(abs string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.containsLocked(abs)
}

func (c *Catalog) containsLocked(abs string) bool {
	if c.root == "" {
		return false
	}
	abs = filepath.Clean(abs)
	return abs == c.root || strings.HasPrefix(abs, c.root+string(filepath.Separator))
}

// ResolveFile maps a user-supplied file path to a catalog-relative
// one. Absolute paths must sit inside the root. Relative paths are
// tried against baseDir first, then against the root.
func (c *Catalog) ResolveFile(path, baseDir string) (string, error) {
	c.mu.RLock()
	root := c.root
	c.mu.RUnlock()

	if root == "" {
		return "", ErrNotScanned
	}

	if filepath.IsAbs(path) {
		if !c.Contains(path) {
			return "", fmt.Errorf("%s: %w", path, ErrOutOfScope)
		}
		rel, err := filepath.Rel(root, filepath.Clean(path))
		if err != nil {
			return "", err
		}
		return normalizeRel(rel), nil
	}

	if baseDir != "" {
		cand := filepath.Join(baseDir, filepath.FromSlash(path))
		if fi, err := os.Stat(cand); err == nil && fi.Mode().IsRegular() {
			if !c.Contains(cand) {
				return "", fmt.Errorf("%s: %w", path, ErrOutOfScope)
			}
			rel, err := filepath.Rel(root, filepath.Clean(cand))
			if err != nil {
				return "", err
			}
			return normalizeRel(rel), nil
		}
	}

	cand := filepath.Join(root, filepath.FromSlash(path))
	if !c.Contains(cand) {
		return "", fmt.Errorf("%s: %w", path, ErrOutOfScope)
	}
	if fi, err := os.Stat(cand); err == nil && fi.Mode().IsRegular() {
		rel, err := filepath.Rel(root, filepath.Clean(cand))
		if err != nil {
			return "", err
		}
		return normalizeRel(rel), nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrNotFound)
}

// EnsureContent returns the content record at rel, loading it from
// disk when the scan did not capture it. On-demand loads are not
// subject to the extension filter or the size cap.
func (c *Catalog) EnsureContent(rel string) (*ContentRecord, error) {
	if rec, ok := c.Content(rel); ok {
		return rec, nil
	}

	c.mu.RLock()
	root := c.root
	c.mu.RUnlock()
	if root == "" {
		return nil, ErrNotScanned
	}

	abs := filepath.Join(root, filepath.FromSlash(rel))
	fi, err := os.Stat(abs)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	text := strings.ToValidUTF8(string(data), "�")
	ext := ExtensionOf(rel)
	language := ext
	if language == "" {
		language = "text"
	}
	rec := &ContentRecord{
		Path:     rel,
		Content:  text,
		Language: language,
		Size:     len(text),
		Lines:    CountLines(text),
		Depth:    pathDepth(rel),
		ModTime:  fi.ModTime(),
	}

	c.mu.Lock()
	c.contents[rel] = rec
	if _, ok := c.files[rel]; !ok {
		c.files[rel] = &FileRecord{
			Path:      rel,
			Extension: ext,
			Size:      fi.Size(),
			ModTime:   fi.ModTime(),
		}
		if ext != "" {
			c.exts[ext] = true
		}
	}
	c.mu.Unlock()

	return rec, nil
}

// UpsertContent refreshes the records at rel after its file was
// written, creating them when the file is new. The directory tree is
// only rebuilt by a rescan.
func (c *Catalog) UpsertContent(rel, content string) *ContentRecord {
	ext := ExtensionOf(rel)
	language := ext
	if language == "" {
		language = "text"
	}

	modTime := time.Now()
	size := int64(len(content))
	if fi, err := os.Stat(c.Abs(rel)); err == nil {
		modTime = fi.ModTime()
		size = fi.Size()
	}

	rec := &ContentRecord{
		Path:     rel,
		Content:  content,
		Language: language,
		Size:     len(content),
		Lines:    CountLines(content),
		Depth:    pathDepth(rel),
		ModTime:  modTime,
	}

	c.mu.Lock()
	c.contents[rel] = rec
	c.files[rel] = &FileRecord{
		Path:      rel,
		Extension: ext,
		Size:      size,
		ModTime:   modTime,
	}
	if ext != "" {
		c.exts[ext] = true
	}
	c.mu.Unlock()

	return rec
}
