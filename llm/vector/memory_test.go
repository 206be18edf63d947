package vector

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remedy/llm"
)

// stubEmbedder returns fixed vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			vec = []float64{0.1, 0.1, 0.1}
		}
		out[i] = vec
	}
	return out, nil
}

func doc(id string, dt llm.DocType, content string) llm.Document {
	return llm.Document{ID: id, Content: content, DocType: dt}
}

func TestBuildIndexEmptyInput(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{}, 3)

	_, err := BuildIndex(context.Background(), svc, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrIndexBuild))
}

func TestBuildIndexEmbedFailure(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{err: fmt.Errorf("quota exceeded")}, 3)

	_, err := BuildIndex(context.Background(), svc, []llm.Document{
		doc("a", llm.DocTypeMedicine, "Medicine: Crocin"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrIndexBuild))
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSearchOrdersByCosine(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{vectors: map[string][]float64{
		"Medicine: Crocin":  {1, 0, 0},
		"Medicine: Azee":    {0.9, 0.1, 0},
		"Disease: Dengue":   {0, 1, 0},
		"Symptom: Headache": {0, 0, 1},
	}}, 3)

	idx, err := BuildIndex(context.Background(), svc, []llm.Document{
		doc("crocin", llm.DocTypeMedicine, "Medicine: Crocin"),
		doc("azee", llm.DocTypeMedicine, "Medicine: Azee"),
		doc("dengue", llm.DocTypeDisease, "Disease: Dengue"),
		doc("headache", llm.DocTypeSymptom, "Symptom: Headache"),
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "crocin", results[0].Document.ID)
	assert.Equal(t, "azee", results[1].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	same := []float64{1, 0, 0}
	svc := NewEmbeddingService(&stubEmbedder{vectors: map[string][]float64{
		"first":  same,
		"second": same,
		"third":  same,
	}}, 3)

	idx, err := BuildIndex(context.Background(), svc, []llm.Document{
		doc("first", llm.DocTypeMedicine, "first"),
		doc("second", llm.DocTypeDisease, "second"),
		doc("third", llm.DocTypeSymptom, "third"),
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "first", results[0].Document.ID)
	assert.Equal(t, "second", results[1].Document.ID)
	assert.Equal(t, "third", results[2].Document.ID)
}

func TestSearchTopKLargerThanIndex(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{}, 3)

	idx, err := BuildIndex(context.Background(), svc, []llm.Document{
		doc("a", llm.DocTypeMedicine, "a"),
		doc("b", llm.DocTypeDisease, "b"),
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSearchEmptyQueryVector(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{}, 3)

	idx, err := BuildIndex(context.Background(), svc, []llm.Document{
		doc("a", llm.DocTypeMedicine, "a"),
	})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), nil, 4)
	assert.Error(t, err)
}

func TestBuildIndexDeterministic(t *testing.T) {
	docs := []llm.Document{
		doc("crocin", llm.DocTypeMedicine, "Medicine: Crocin"),
		doc("dengue", llm.DocTypeDisease, "Disease: Dengue"),
	}
	vectors := map[string][]float64{
		"Medicine: Crocin": {1, 0, 0},
		"Disease: Dengue":  {0, 1, 0},
	}

	query := []float32{0.7, 0.7, 0}

	var previous []string
	for i := 0; i < 3; i++ {
		svc := NewEmbeddingService(&stubEmbedder{vectors: vectors}, 3)
		idx, err := BuildIndex(context.Background(), svc, docs)
		require.NoError(t, err)

		results, err := idx.Search(context.Background(), query, 2)
		require.NoError(t, err)

		ids := make([]string, len(results))
		for j, r := range results {
			ids[j] = r.Document.ID
		}
		if previous != nil {
			assert.Equal(t, previous, ids)
		}
		previous = ids
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{1, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
