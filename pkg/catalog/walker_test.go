package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalker_PrunesIgnoredAnywhere(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.py":                "1\n",
		"node_modules/lib.js":    "2\n",
		"a/node_modules/deep.js": "3\n",
		"a/keep.js":              "4\n",
	})

	var seen []string
	walker := NewWalker(DefaultScanOptions())
	err := walker.Walk(root, func(rel string, entry fs.DirEntry) error {
		if !entry.IsDir() {
			seen = append(seen, rel)
		}
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep.py", "a/keep.js"}, seen)
}

func TestWalker_RootNamedLikeIgnored(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "node_modules")
	require.NoError(t, os.MkdirAll(root, 0o755))
	writeTree(t, root, map[string]string{"f.py": "1\n"})

	var seen []string
	walker := NewWalker(DefaultScanOptions())
	err := walker.Walk(root, func(rel string, entry fs.DirEntry) error {
		if !entry.IsDir() {
			seen = append(seen, rel)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"f.py"}, seen, "the root itself is never pruned")
}

func TestWalker_DepthLimit(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"r.py":     "1\n",
		"a/m.py":   "2\n",
		"a/b/d.py": "3\n",
	})

	tests := []struct {
		name     string
		maxDepth int
		want     []string
	}{
		{name: "unlimited", maxDepth: 0, want: []string{"r.py", "a/m.py", "a/b/d.py"}},
		{name: "one level", maxDepth: 1, want: []string{"r.py", "a/m.py"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []string
			walker := NewWalker(ScanOptions{MaxDepth: tt.maxDepth})
			err := walker.Walk(root, func(rel string, entry fs.DirEntry) error {
				if !entry.IsDir() {
					seen = append(seen, rel)
				}
				return nil
			})
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, seen)
		})
	}
}
