package assist

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ternarybob/scout/pkg/catalog"
)

const (
	// vectorHead caps how much of each file feeds its embedding. File
	// heads carry imports, declarations, and doc comments, which is
	// what relevance ranking needs.
	vectorHead = 2000

	embeddingDims = 256
)

// vectorIndex ranks files by embedding similarity over an in-memory
// chromem collection. The collection is built lazily on the first
// query after a scan; any failure degrades to keyword ranking.
type vectorIndex struct {
	db    *chromem.DB
	col   *chromem.Collection
	built bool
	dead  bool
}

func newVectorIndex() *vectorIndex {
	return &vectorIndex{db: chromem.NewDB()}
}

// relevantPaths returns up to limit catalog paths ranked by cosine
// similarity to q. An empty return means the caller should fall back
// to keyword scoring.
func (v *vectorIndex) relevantPaths(ctx context.Context, cat *catalog.Catalog, q string, limit int) []string {
	if v == nil || v.dead {
		return nil
	}
	if !v.built {
		if err := v.build(ctx, cat); err != nil {
			v.dead = true
			return nil
		}
	}

	n := limit
	if count := v.col.Count(); n > count {
		n = count
	}
	if n < 1 {
		return nil
	}

	results, err := v.col.Query(ctx, q, n, nil, nil)
	if err != nil {
		return nil
	}
	paths := make([]string, 0, len(results))
	for _, res := range results {
		paths = append(paths, res.ID)
	}
	return paths
}

func (v *vectorIndex) build(ctx context.Context, cat *catalog.Catalog) error {
	col, err := v.db.GetOrCreateCollection("files", nil, hashEmbedding)
	if err != nil {
		return err
	}
	for _, rec := range cat.AllContents() {
		doc := chromem.Document{
			ID:      rec.Path,
			Content: rec.Path + "\n" + head(rec.Content, vectorHead),
		}
		// Content with no extractable terms cannot be embedded.
		if err := col.AddDocument(ctx, doc); err != nil {
			continue
		}
	}
	v.col = col
	v.built = true
	return nil
}

// hashEmbedding is a deterministic local embedding: terms are feature
// hashed into a fixed-size term-frequency vector, L2-normalized for
// cosine similarity. No network service, reproducible rankings.
func hashEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, embeddingDims)
	terms := 0
	for _, term := range tokenizeTerms(text) {
		h := fnv.New32a()
		h.Write([]byte(term))
		vec[h.Sum32()%embeddingDims]++
		terms++
	}
	if terms == 0 {
		return nil, fmt.Errorf("nothing to embed")
	}

	var norm float64
	for _, x := range vec {
		norm += float64(x) * float64(x)
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

// tokenizeTerms splits text into lowercase keywords, breaking on the
// delimiters common in identifiers and call sites.
func tokenizeTerms(text string) []string {
	text = strings.ToLower(text)
	for _, delim := range []string{".", "_", "-", "(", ")"} {
		text = strings.ReplaceAll(text, delim, " ")
	}

	var terms []string
	for _, word := range strings.Fields(text) {
		if len(word) >= 2 {
			terms = append(terms, word)
		}
	}
	return terms
}
