package proposal

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileBlock is a fenced code block announced by a file marker line
// such as "File: path", "Create file: path", or "Modify file: path".
type FileBlock struct {
	Path    string
	Lang    string
	Content string
}

// markerRegexp matches a file marker anywhere in the line preceding a
// code block. The rest of the line is the path.
var markerRegexp = regexp.MustCompile(`(?:File|Create file|Modify file):\s*(.+)$`)

// ExtractFileBlocks walks the markdown AST of an LLM answer and
// returns every fenced code block whose preceding paragraph ends in a
// file marker line. Blocks without a marker are ignored.
func ExtractFileBlocks(source string) []FileBlock {
	src := []byte(source)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var blocks []FileBlock
	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		path := markerPath(fenced.PreviousSibling(), src)
		if path == "" {
			return ast.WalkSkipChildren, nil
		}

		var block FileBlock
		block.Path = path
		if fenced.Info != nil {
			block.Lang = string(fenced.Info.Text(src))
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content.Write(seg.Value(src))
		}
		block.Content = strings.TrimSpace(content.String())

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil
	}
	return blocks
}

// markerPath extracts the file path from the last line of the block
// preceding a fence, or "" when there is no usable marker.
func markerPath(prev ast.Node, src []byte) string {
	switch prev.(type) {
	case *ast.Paragraph, *ast.TextBlock:
	default:
		return ""
	}

	type lined interface {
		Lines() *text.Segments
	}
	segs := prev.(lined).Lines()
	if segs.Len() == 0 {
		return ""
	}

	lastSeg := segs.At(segs.Len() - 1)
	last := string(lastSeg.Value(src))
	m := markerRegexp.FindStringSubmatch(last)
	if m == nil {
		return ""
	}

	path := strings.TrimSpace(m[1])
	path = strings.Trim(path, "`*")
	path = strings.TrimSpace(path)
	if path == "" || strings.Contains(path, " ") {
		// Marker followed by prose, not a path
		return ""
	}
	return path
}
