package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"remedy/llm"
)

// entry pairs a document with its embedding vector.
type entry struct {
	doc    llm.Document
	vector []float32
}

// MemoryIndex is an in-memory cosine nearest-neighbor index. BuildIndex
// assembles it once; afterwards it is never written to.
type MemoryIndex struct {
	entries []entry
}

// BuildIndex embeds every document and assembles the in-memory index.
// The build is all-or-nothing: any embedding failure aborts it.
func BuildIndex(ctx context.Context, svc *EmbeddingService, docs []llm.Document) (*MemoryIndex, error) {
	if len(docs) == 0 {
		return nil, llm.WrapIndexBuild(fmt.Errorf("no documents to index"))
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := svc.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, llm.WrapIndexBuild(err)
	}

	entries := make([]entry, len(docs))
	for i, doc := range docs {
		if len(vectors[i]) == 0 {
			return nil, llm.WrapIndexBuild(fmt.Errorf("empty embedding for document %s", doc.ID))
		}
		entries[i] = entry{doc: doc, vector: vectors[i]}
	}

	return &MemoryIndex{entries: entries}, nil
}

// Search returns the top-k entries by cosine similarity. Equal scores keep
// insertion order, so results are deterministic for a fixed build.
func (idx *MemoryIndex) Search(ctx context.Context, queryVector []float32, topK int) ([]llm.SearchResult, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 4
	}

	results := make([]llm.SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, llm.SearchResult{
			Document: e.doc,
			Score:    cosineSimilarity(queryVector, e.vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Count returns the number of indexed documents.
func (idx *MemoryIndex) Count(ctx context.Context) (int64, error) {
	return int64(len(idx.entries)), nil
}

// Close is a no-op for the in-memory index.
func (idx *MemoryIndex) Close() error {
	return nil
}

// cosineSimilarity calculates the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float32
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
