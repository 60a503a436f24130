package query

import (
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/scout/pkg/catalog"
)

// FileQuery selects files by name glob, extension, or path glob, with
// optional scoping to the cursor's directory.
type FileQuery struct {
	// Name is a glob matched against the basename, e.g. "model*.py".
	Name string

	// Ext filters by extension, with or without the leading dot.
	Ext string

	// PathGlob is a glob matched against the whole relative path.
	PathGlob string

	// CurrentDirOnly restricts matches to the cursor's directory.
	// With Recursive set its whole subtree qualifies, otherwise only
	// direct children.
	CurrentDirOnly bool
	Recursive      bool

	// Limit caps the result count. Zero means DefaultFindLimit.
	Limit int
}

// DefaultFindLimit is the result cap when FileQuery.Limit is unset.
const DefaultFindLimit = 100

// FileHit is one matched file.
type FileHit struct {
	Path      string
	Extension string
	Size      int64
	ModTime   time.Time
}

// FileResults is the outcome of FindFiles.
type FileResults struct {
	Count     int
	Hits      []FileHit
	Truncated bool
	Scope     string
	Recursive bool
}

// FindFiles returns catalog files matching every criterion in q,
// sorted by path and truncated at the limit.
func (e *Engine) FindFiles(q FileQuery) (*FileResults, error) {
	if !e.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}

	var nameGlob, pathGlob *regexp.Regexp
	var err error
	if q.Name != "" {
		if nameGlob, err = globRegexp(q.Name); err != nil {
			return nil, err
		}
	}
	if q.PathGlob != "" {
		if pathGlob, err = globRegexp(q.PathGlob); err != nil {
			return nil, err
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(q.Ext, "."))

	rel := e.cur.CurrentRel()
	var hits []FileHit
	for _, rec := range e.cat.AllFiles() {
		if q.CurrentDirOnly && !inScope(rec.Path, rel, q.Recursive) {
			continue
		}
		if nameGlob != nil && !nameGlob.MatchString(strings.ToLower(baseName(rec.Path))) {
			continue
		}
		if ext != "" && !strings.HasSuffix(strings.ToLower(rec.Path), "."+ext) {
			continue
		}
		if pathGlob != nil && !pathGlob.MatchString(strings.ToLower(rec.Path)) {
			continue
		}
		hits = append(hits, FileHit{
			Path:      rec.Path,
			Extension: rec.Extension,
			Size:      rec.Size,
			ModTime:   rec.ModTime,
		})
	}

	results := &FileResults{
		Scope:     ScopeCodebase,
		Recursive: q.Recursive || !q.CurrentDirOnly,
	}
	if q.CurrentDirOnly {
		results.Scope = ScopeCurrentDir
	}
	if len(hits) > limit {
		hits = hits[:limit]
		results.Truncated = true
	}
	results.Hits = hits
	results.Count = len(hits)
	return results, nil
}

// ExtensionMatch is one file in an extension report.
type ExtensionMatch struct {
	Path    string
	Size    int64
	ModTime time.Time
	Content string
	Lines   int
}

// ByExtension returns every file whose extension equals ext,
// case-insensitively and with a leading dot tolerated. Content and
// line counts are attached when loaded and requested.
func (e *Engine) ByExtension(ext string, includeContent bool) ([]ExtensionMatch, error) {
	if !e.cat.Scanned() {
		return nil, catalog.ErrNotScanned
	}

	want := strings.ToLower(strings.TrimPrefix(ext, "."))
	var matches []ExtensionMatch
	for _, rec := range e.cat.AllFiles() {
		if rec.Extension != want {
			continue
		}
		m := ExtensionMatch{Path: rec.Path, Size: rec.Size, ModTime: rec.ModTime}
		if content, ok := e.cat.Content(rec.Path); ok {
			m.Lines = content.Lines
			if includeContent {
				m.Content = content.Content
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// inScope reports whether path falls inside the directory rel ("" for
// the root) under the given recursion rule.
func inScope(path, rel string, recursive bool) bool {
	if recursive {
		if rel == "" {
			return true
		}
		return strings.HasPrefix(path, rel+"/")
	}
	return parentDir(path) == rel
}

func parentDir(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i]
	}
	return ""
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// globRegexp compiles a shell-style glob into an anchored,
// case-insensitive regular expression. "*" crosses separators, "?"
// matches one character, "[seq]" and "[!seq]" are character classes.
func globRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	pattern = strings.ToLower(pattern)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				b.WriteString(regexp.QuoteMeta("["))
				continue
			}
			set := pattern[i+1 : j]
			set = strings.ReplaceAll(set, `\`, `\\`)
			if strings.HasPrefix(set, "!") {
				set = "^" + set[1:]
			}
			b.WriteString("[" + set + "]")
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString("$")
	return regexp.Compile(b.String())
}
