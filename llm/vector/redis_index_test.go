package vector

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remedy/llm"
)

func TestKNNQuery(t *testing.T) {
	assert.Equal(t, "*=>[KNN 4 @vector $query_vector AS score]", knnQuery(4))
	assert.Equal(t, "*=>[KNN 10 @vector $query_vector AS score]", knnQuery(10))
}

func TestEncodeVectorLittleEndian(t *testing.T) {
	vec := []float32{1.5, -2.25, 0}
	buf := encodeVector(vec)

	require.Len(t, buf, 12)
	for i, want := range vec {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		assert.Equal(t, want, math.Float32frombits(bits))
	}
}

// fakeSearchReply mimics the flat RESP2 FT.SEARCH reply: total count followed
// by alternating keys and field/value lists.
func fakeSearchReply() interface{} {
	return []interface{}{
		int64(2),
		"pharma:doc-1",
		[]interface{}{
			"content", "Medicine: Crocin",
			"doc_type", "medicine",
			"metadata", `{"prescription":"No","brands":"Crocin Advance"}`,
			"score", "0.25",
		},
		"pharma:doc-2",
		[]interface{}{
			"content", "Disease: Dengue",
			"doc_type", "disease",
			"metadata", `{"symptoms":"High fever"}`,
			"score", "0.5",
		},
	}
}

func TestParseSearchResults(t *testing.T) {
	results, err := parseSearchResults(fakeSearchReply(), "pharma:")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "doc-1", first.Document.ID)
	assert.Equal(t, "Medicine: Crocin", first.Document.Content)
	assert.Equal(t, llm.DocTypeMedicine, first.Document.DocType)
	assert.Equal(t, "No", first.Document.Metadata["prescription"])
	// RediSearch reports cosine distance; similarity is 1 - distance.
	assert.InDelta(t, 0.75, float64(first.Score), 1e-6)

	second := results[1]
	assert.Equal(t, "doc-2", second.Document.ID)
	assert.Equal(t, llm.DocTypeDisease, second.Document.DocType)
	assert.InDelta(t, 0.5, float64(second.Score), 1e-6)
}

func TestParseSearchResultsEmptyReply(t *testing.T) {
	results, err := parseSearchResults([]interface{}{int64(0)}, "pharma:")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = parseSearchResults([]interface{}{}, "pharma:")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseSearchResultsRejectsUnexpectedShape(t *testing.T) {
	_, err := parseSearchResults("not a slice", "pharma:")
	assert.Error(t, err)
}

func TestParseSearchResultsSkipsMalformedEntries(t *testing.T) {
	reply := []interface{}{
		int64(2),
		// key present but fields are not a list; skipped
		"pharma:bad",
		"oops",
		"pharma:good",
		[]interface{}{
			"content", "Symptom: Headache",
			"doc_type", "symptom",
			"score", "0.1",
		},
	}

	results, err := parseSearchResults(reply, "pharma:")
	require.NoError(t, err)

	// Reply offsets shift when an entry is malformed; the parser stays on the
	// key/fields stride and keeps whatever decodes cleanly.
	require.NotEmpty(t, results)
	last := results[len(results)-1]
	assert.Equal(t, llm.DocTypeSymptom, last.Document.DocType)
}

func TestDefaultRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("VECTOR_INDEX_NAME", "pharma-test")
	t.Setenv("VECTOR_DIM", "768")

	cfg := DefaultRedisConfig()
	assert.Equal(t, "redis.internal:6380", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, "pharma-test", cfg.IndexName)
	assert.Equal(t, 768, cfg.VectorDim)
	assert.Equal(t, "pharma:", cfg.KeyPrefix)
}
