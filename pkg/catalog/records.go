package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// FileRecord holds metadata for a single file discovered during a scan.
// Every file under the root is recorded, whether or not its content
// was loaded.
type FileRecord struct {
	Path      string
	Extension string
	Size      int64
	ModTime   time.Time
}

// ContentRecord holds the loaded text of a file plus derived metadata.
// Size counts the decoded content, which can differ from the on-disk
// size when invalid UTF-8 was replaced.
type ContentRecord struct {
	Path     string
	Content  string
	Language string
	Size     int
	Lines    int
	Depth    int
	ModTime  time.Time
}

// Summary reports the outcome of a scan.
type Summary struct {
	FilesAnalyzed int
	TotalFiles    int
	MaxDepth      int
	Extensions    []string
	Stats         []ExtensionStat
}

// ExtensionStat aggregates per-extension counts across a scan.
type ExtensionStat struct {
	Extension string
	Count     int
	TotalSize int64
	Examples  []string
}

// ExtensionOf returns the lowercase extension of a file name without
// the leading dot. Names that are nothing but an extension, like
// .gitignore, have no extension.
func ExtensionOf(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// CountLines returns the number of lines in content, counting a final
// line without a trailing newline. Empty content has zero lines.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// pathDepth is the nesting depth of a slash-separated relative path.
// Entries directly under the root have depth zero.
func pathDepth(rel string) int {
	return strings.Count(rel, "/")
}

// parentOf returns the relative path of the containing directory,
// with "" standing for the root.
func parentOf(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
