package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant_ContentHitsNeedSubstance(t *testing.T) {
	e, _ := newEngine(t, fixtureFiles())

	scored := e.Relevant("alpha", 0)
	require.Len(t, scored, 1, "alpha only counts inside files over 500 bytes")
	assert.Equal(t, "src/main.py", scored[0].Record.Path)
	assert.Greater(t, scored[0].Score, 80.0)
}

func TestRelevant_NameOutranksContent(t *testing.T) {
	e, _ := newEngine(t, fixtureFiles())

	scored := e.Relevant("util", 0)
	require.NotEmpty(t, scored)
	assert.Equal(t, "src/util.py", scored[0].Record.Path,
		"basename and path hits beat content hits")
}

func TestRelevant_SizeBreaksTies(t *testing.T) {
	e, _ := newEngine(t, fixtureFiles())

	scored := e.Relevant("py", 0)
	require.Len(t, scored, 5, "default limit is five")
	assert.Equal(t, "src/main.py", scored[0].Record.Path,
		"equal term scores fall back to file size")

	top := e.Relevant("py", 2)
	assert.Len(t, top, 2)
}

func TestRelevant_EmptyQuery(t *testing.T) {
	e, _ := newEngine(t, fixtureFiles())
	assert.Nil(t, e.Relevant("   ", 0))
}

func TestImportant_ScoringRules(t *testing.T) {
	e, _ := newEngine(t, map[string]string{
		"main.py":         pad("print('hi')\n", 600),
		"top.py":          pad("x = 1\n", 700),
		"tiny.py":         pad("y = 2\n", 100),
		"deep/big.py":     pad("z = 3\n", 6001),
		"deep/service.py": pad("def svc():\n    pass\n", 600),
		"deep/mid.py":     pad("a = 4\n", 600),
	})

	important := e.Important(500)
	require.Len(t, important, 4, "tiny.py is under the size floor, deep/mid.py matches no rule")

	assert.Equal(t, "main.py", important[0].Path)
	assert.Equal(t, 100.0, important[0].Score, "entrypoint names score highest")
	assert.Equal(t, "deep/service.py", important[1].Path)
	assert.Equal(t, 80.0, important[1].Score)
	assert.Equal(t, "top.py", important[2].Path)
	assert.Equal(t, 50.0, important[2].Score, "top level files matter")
	assert.Equal(t, "deep/big.py", important[3].Path)
	assert.InDelta(t, 6.0, important[3].Score, 0.01, "big files score by size")
}

func TestImportant_SizeFloor(t *testing.T) {
	e, _ := newEngine(t, map[string]string{
		"tiny.py": pad("y = 2\n", 100),
	})

	assert.Empty(t, e.Important(500))

	loose := e.Important(50)
	require.Len(t, loose, 1)
	assert.Equal(t, 50.0, loose[0].Score)
}

// pad extends content with a comment line to exactly size bytes.
func pad(content string, size int) string {
	if len(content) >= size {
		return content[:size]
	}
	return content + strings.Repeat("#", size-len(content)-1) + "\n"
}
