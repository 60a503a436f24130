package catalog

import (
	"path/filepath"
	"sort"
	"strings"
)

// DirectoryNode describes one directory in the scanned tree. ChildDirs
// and Files hold immediate children by name, in lexical order.
type DirectoryNode struct {
	RelPath   string
	Parent    string
	Depth     int
	ChildDirs []string
	Files     []string
}

// Tree is the directory structure captured by a scan, keyed by
// relative path with "" for the root.
type Tree struct {
	nodes map[string]*DirectoryNode
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*DirectoryNode)}
}

// Node returns the directory at rel, if present.
func (t *Tree) Node(rel string) (*DirectoryNode, bool) {
	n, ok := t.nodes[rel]
	return n, ok
}

// Len returns the number of directories in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// DirPaths returns every directory path ordered shallow to deep, with
// lexical order within a level.
func (t *Tree) DirPaths() []string {
	paths := make([]string, 0, len(t.nodes))
	for rel := range t.nodes {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.Count(paths[i], "/") < strings.Count(paths[j], "/")
	})
	return paths
}

// insert records a directory, linking it into its parent. Directories
// arrive in walk order, so the parent always exists first.
func (t *Tree) insert(rel string) *DirectoryNode {
	if n, ok := t.nodes[rel]; ok {
		return n
	}
	n := &DirectoryNode{
		RelPath: rel,
		Parent:  parentOf(rel),
		Depth:   pathDepth(rel),
	}
	t.nodes[rel] = n
	if rel != "" {
		if p, ok := t.nodes[n.Parent]; ok {
			p.ChildDirs = append(p.ChildDirs, filepath.Base(rel))
		}
	}
	return n
}

// insertFile records a file under its containing directory.
func (t *Tree) insertFile(rel string) {
	if n, ok := t.nodes[parentOf(rel)]; ok {
		n.Files = append(n.Files, filepath.Base(rel))
	}
}
