package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Cursor tracks the current directory for navigation commands. The
// cursor only moves when a target resolves to a directory inside the
// scanned root, so failed changes leave it where it was.
type Cursor struct {
	cat     *Catalog
	current string
}

// NewCursor creates a cursor positioned at the catalog root.
func NewCursor(cat *Catalog) *Cursor {
	return &Cursor{cat: cat, current: cat.Root()}
}

// Reset moves the cursor back to the catalog root. Call after a
// rescan.
func (cu *Cursor) Reset() {
	cu.current = cu.cat.Root()
}

// Current returns the absolute path of the current directory.
func (cu *Cursor) Current() string {
	if cu.current == "" {
		return cu.cat.Root()
	}
	return cu.current
}

// CurrentRel returns the current directory relative to the root, ""
// when at the root.
func (cu *Cursor) CurrentRel() string {
	root := cu.cat.Root()
	if root == "" || cu.Current() == root {
		return ""
	}
	rel, err := filepath.Rel(root, cu.Current())
	if err != nil {
		return ""
	}
	return normalizeRel(rel)
}

// DirInfo describes one subdirectory in a listing, with recursive
// counts of what it contains.
type DirInfo struct {
	Name          string
	RelPath       string
	AbsPath       string
	ContainsFiles int
	ContainsDirs  int
}

// FileInfo describes one file in a listing.
type FileInfo struct {
	Name      string
	RelPath   string
	Extension string
	Size      int64
	ModTime   time.Time
}

// Listing is the result of listing a directory. Entries reflect the
// live filesystem, so files created after the scan still appear.
type Listing struct {
	Rel     string // "/" at the root
	AbsPath string
	AtRoot  bool
	Depth   int
	Dirs    []DirInfo
	Files   []FileInfo
}

// ChangeDir moves the cursor to target and lists it. It is the same
// operation as List.
func (cu *Cursor) ChangeDir(target string) (*Listing, error) {
	return cu.List(target)
}

// List resolves target, moves the cursor there, and returns the
// directory contents. An empty target lists the current directory.
// ".." at the root stays at the root.
func (cu *Cursor) List(target string) (*Listing, error) {
	root := cu.cat.Root()
	if root == "" {
		return nil, ErrNotScanned
	}

	var dir string
	switch {
	case target == "" || target == ".":
		dir = cu.Current()
	case target == "..":
		if cu.Current() == root {
			dir = root
		} else {
			dir = filepath.Dir(cu.Current())
		}
	case filepath.IsAbs(target):
		if !cu.cat.Contains(target) {
			return nil, fmt.Errorf("%s: %w", target, ErrOutOfScope)
		}
		dir = filepath.Clean(target)
	default:
		dir = filepath.Clean(filepath.Join(cu.Current(), filepath.FromSlash(target)))
		if !cu.cat.Contains(dir) {
			return nil, fmt.Errorf("%s: %w", target, ErrOutOfScope)
		}
	}

	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", target, ErrNotFound)
	}

	cu.current = dir
	return cu.buildListing(dir, root)
}

func (cu *Cursor) buildListing(dir, root string) (*Listing, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return nil, err
	}
	rel = normalizeRel(rel)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	listing := &Listing{
		Rel:     rel,
		AbsPath: dir,
		AtRoot:  rel == "",
		Depth:   pathDepth(rel),
	}
	if listing.AtRoot {
		listing.Rel = "/"
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		entryRel := entry.Name()
		if rel != "" {
			entryRel = rel + "/" + entry.Name()
		}

		if entry.IsDir() {
			files, dirs := countBeneath(full)
			listing.Dirs = append(listing.Dirs, DirInfo{
				Name:          entry.Name(),
				RelPath:       entryRel,
				AbsPath:       full,
				ContainsFiles: files,
				ContainsDirs:  dirs,
			})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing.Files = append(listing.Files, FileInfo{
			Name:      entry.Name(),
			RelPath:   entryRel,
			Extension: ExtensionOf(entry.Name()),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	return listing, nil
}

// countBeneath counts every file and directory nested under dir, with
// no pruning.
func countBeneath(dir string) (files, dirs int) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		if d.IsDir() {
			dirs++
		} else {
			files++
		}
		return nil
	})
	return files, dirs
}
