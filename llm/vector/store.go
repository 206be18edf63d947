package vector

import (
	"context"

	"remedy/llm"
)

// Index is the read-only retrieval contract the answering pipeline depends
// on. Implementations are built once at startup and never mutated afterwards,
// so they are safe for concurrent readers.
type Index interface {
	// Search returns the top-k documents nearest to the query vector,
	// ordered by descending cosine similarity.
	Search(ctx context.Context, queryVector []float32, topK int) ([]llm.SearchResult, error)

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int64, error)

	// Close releases any connections or resources.
	Close() error
}

// StoreConfig holds configuration shared by index implementations
type StoreConfig struct {
	// Embedding dimension (must match the embedding model)
	EmbeddingDim int

	// Index name for the vector index
	IndexName string

	// Key prefix for stored documents
	KeyPrefix string
}

// DefaultStoreConfig returns default configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		EmbeddingDim: 1024,
		IndexName:    "remedy-knowledge",
		KeyPrefix:    "pharma:",
	}
}
