package assist

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/scout/pkg/catalog"
)

func TestTokenizeTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"identifiers split on delimiters", "parse_file(x).go", []string{"parse", "file", "go"}},
		{"case folds", "Reload-Config", []string{"reload", "config"}},
		{"single letters dropped", "a b c", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenizeTerms(tt.in))
		})
	}
}

func TestHashEmbedding_DeterministicUnitVector(t *testing.T) {
	ctx := context.Background()

	first, err := hashEmbedding(ctx, "parse config loader")
	require.NoError(t, err)
	second, err := hashEmbedding(ctx, "parse config loader")
	require.NoError(t, err)

	assert.Equal(t, first, second, "the same text always embeds identically")
	require.Len(t, first, embeddingDims)

	var norm float64
	for _, x := range first {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5, "vectors are normalized for cosine similarity")
}

func TestHashEmbedding_NothingToEmbed(t *testing.T) {
	ctx := context.Background()

	_, err := hashEmbedding(ctx, "")
	assert.Error(t, err)
	_, err = hashEmbedding(ctx, "x ( )")
	assert.Error(t, err, "single letters and delimiters carry no terms")
}

func TestVectorIndex_RanksByTermOverlap(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"auth.py":  "login authentication session token refresh\n",
		"math.py":  "add subtract multiply divide numbers\n",
		"notes.md": "general notes about the weather\n",
	})
	cat := catalog.New()
	_, err := cat.Scan(root, catalog.DefaultScanOptions())
	require.NoError(t, err)

	v := newVectorIndex()
	paths := v.relevantPaths(context.Background(), cat, "login authentication token", 2)

	require.NotEmpty(t, paths)
	assert.Equal(t, "auth.py", paths[0])
	assert.LessOrEqual(t, len(paths), 2)
}

func TestVectorIndex_DegradedPaths(t *testing.T) {
	ctx := context.Background()

	var nilIndex *vectorIndex
	assert.Nil(t, nilIndex.relevantPaths(ctx, catalog.New(), "query terms", 5))

	dead := newVectorIndex()
	dead.dead = true
	assert.Nil(t, dead.relevantPaths(ctx, catalog.New(), "query terms", 5))

	root := t.TempDir()
	cat := catalog.New()
	_, err := cat.Scan(root, catalog.DefaultScanOptions())
	require.NoError(t, err)

	empty := newVectorIndex()
	assert.Nil(t, empty.relevantPaths(ctx, cat, "query terms", 5),
		"an empty catalog yields no candidates")

	populated := newVectorIndex()
	writeFiles(t, root, map[string]string{"auth.py": "login tokens\n"})
	_, err = cat.Scan(root, catalog.DefaultScanOptions())
	require.NoError(t, err)
	assert.Nil(t, populated.relevantPaths(ctx, cat, "", 5),
		"queries with no embeddable terms fall back to keyword ranking")
}

func TestSuggestFeature_SemanticContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"auth.py":  "login authentication session token refresh\n",
		"math.py":  "add subtract multiply divide numbers\n",
		"notes.md": "general notes about the weather\n",
	})

	comp := &scriptedCompleter{responses: []string{"Sum.", "No concrete changes."}}
	s := New(Options{Completer: comp})
	_, err := s.ScanCodebase(context.Background(), root)
	require.NoError(t, err)

	_, err = s.SuggestFeature(context.Background(), "login authentication token")
	require.NoError(t, err)

	_, prompt, _ := comp.call(1)
	assert.Contains(t, prompt, "Here are some key files from the codebase for context:\n\nFile: auth.py\n",
		"the closest file by term overlap is quoted first even though no keyword matches its name")
}
