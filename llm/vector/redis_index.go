package vector

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"remedy/llm"
)

const (
	// Default HNSW parameters
	defaultEFConstruction = 200
	defaultM              = 16

	// Field names in Redis hash
	fieldContent  = "content"
	fieldVector   = "vector"
	fieldDocType  = "doc_type"
	fieldMetadata = "metadata"
	fieldScore    = "score"
)

// RedisIndex implements Index on top of a RediSearch HNSW vector index,
// selected with INDEX_BACKEND=redis. The index is dropped and rebuilt from
// scratch on every process start.
type RedisIndex struct {
	client         *redis.Client
	config         StoreConfig
	efConstruction int
	m              int
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	IndexName      string
	KeyPrefix      string
	VectorDim      int
	EFConstruction int
	M              int
}

// DefaultRedisConfig returns default Redis configuration from environment
func DefaultRedisConfig() RedisConfig {
	def := DefaultStoreConfig()

	return RedisConfig{
		Addr:           getEnvString("REDIS_ADDR", "localhost:6379"),
		Password:       getEnvString("REDIS_PASSWORD", ""),
		DB:             getEnvInt("REDIS_DB", 0),
		PoolSize:       getEnvInt("REDIS_POOL_SIZE", 10),
		IndexName:      getEnvString("VECTOR_INDEX_NAME", def.IndexName),
		KeyPrefix:      def.KeyPrefix,
		VectorDim:      GetEmbeddingDimFromEnv(),
		EFConstruction: getEnvInt("HNSW_EF_CONSTRUCTION", defaultEFConstruction),
		M:              getEnvInt("HNSW_M", defaultM),
	}
}

// getEnvString reads a string from environment variable
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer from environment variable
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

// BuildRedisIndex embeds every document and loads them into a fresh
// RediSearch index. Like BuildIndex, the build is all-or-nothing.
func BuildRedisIndex(ctx context.Context, svc *EmbeddingService, docs []llm.Document, cfg RedisConfig) (*RedisIndex, error) {
	if len(docs) == 0 {
		return nil, llm.WrapIndexBuild(fmt.Errorf("no documents to index"))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
		Protocol: 2, // FT.SEARCH replies are parsed in their flat RESP2 form
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, llm.WrapIndexBuild(fmt.Errorf("connect to redis: %w", err))
	}

	idx := &RedisIndex{
		client: client,
		config: StoreConfig{
			EmbeddingDim: cfg.VectorDim,
			IndexName:    cfg.IndexName,
			KeyPrefix:    cfg.KeyPrefix,
		},
		efConstruction: cfg.EFConstruction,
		m:              cfg.M,
	}
	if idx.config.EmbeddingDim <= 0 {
		idx.config.EmbeddingDim = svc.Dimension()
	}
	if idx.config.KeyPrefix == "" {
		idx.config.KeyPrefix = DefaultStoreConfig().KeyPrefix
	}

	if err := idx.resetIndex(ctx); err != nil {
		client.Close()
		return nil, llm.WrapIndexBuild(err)
	}

	if err := idx.addBatch(ctx, svc, docs); err != nil {
		client.Close()
		return nil, llm.WrapIndexBuild(err)
	}

	return idx, nil
}

// resetIndex drops any previous index together with its documents and
// creates the HNSW schema anew.
func (s *RedisIndex) resetIndex(ctx context.Context) error {
	// DD also removes the indexed hashes, giving the rebuild a clean slate
	_, _ = s.client.Do(ctx, "FT.DROPINDEX", s.config.IndexName, "DD").Result()

	// FT.CREATE remedy-knowledge
	//   ON HASH PREFIX 1 "pharma:"
	//   SCHEMA vector VECTOR HNSW 10 TYPE FLOAT32 DIM 1024 DISTANCE_METRIC COSINE EF_CONSTRUCTION 200 M 16
	//          content TEXT
	//          doc_type TAG
	_, err := s.client.Do(ctx, "FT.CREATE", s.config.IndexName,
		"ON", "HASH",
		"PREFIX", "1", s.config.KeyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(s.config.EmbeddingDim),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(s.efConstruction),
		"M", strconv.Itoa(s.m),
		fieldContent, "TEXT",
		fieldDocType, "TAG",
	).Result()
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	return nil
}

// addBatch embeds all documents and loads them in one pipelined write.
func (s *RedisIndex) addBatch(ctx context.Context, svc *EmbeddingService, docs []llm.Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := svc.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for i, doc := range docs {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("empty embedding for document %s", doc.ID)
		}

		metadataJSON, _ := json.Marshal(doc.Metadata)
		pipe.HSet(ctx, s.config.KeyPrefix+doc.ID,
			fieldContent, doc.Content,
			fieldVector, encodeVector(vectors[i]),
			fieldDocType, string(doc.DocType),
			fieldMetadata, metadataJSON,
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}

	return nil
}

// encodeVector packs a float32 vector into the little-endian blob RediSearch
// expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Search performs a KNN query. RediSearch reports cosine distance, so the
// similarity score is 1 - distance.
func (s *RedisIndex) Search(ctx context.Context, queryVector []float32, topK int) ([]llm.SearchResult, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("query vector cannot be empty")
	}
	if topK <= 0 {
		topK = 4
	}

	// FT.SEARCH remedy-knowledge "*=>[KNN 4 @vector $query_vector AS score]"
	//   PARAMS 2 query_vector "<blob>"
	//   RETURN 4 content doc_type metadata score
	//   SORTBY score
	//   LIMIT 0 4
	//   DIALECT 2
	result, err := s.client.Do(ctx, "FT.SEARCH", s.config.IndexName,
		knnQuery(topK),
		"PARAMS", "2", "query_vector", encodeVector(queryVector),
		"RETURN", "4", fieldContent, fieldDocType, fieldMetadata, fieldScore,
		"SORTBY", fieldScore,
		"LIMIT", "0", strconv.Itoa(topK),
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results, err := parseSearchResults(result, s.config.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	return results, nil
}

// knnQuery builds the KNN query expression for top-k retrieval.
func knnQuery(topK int) string {
	return fmt.Sprintf("*=>[KNN %d @vector $query_vector AS %s]", topK, fieldScore)
}

// parseSearchResults decodes the flat FT.SEARCH reply: a result count
// followed by alternating keys and field/value lists.
func parseSearchResults(result interface{}, keyPrefix string) ([]llm.SearchResult, error) {
	values, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format")
	}
	if len(values) == 0 {
		return []llm.SearchResult{}, nil
	}

	var results []llm.SearchResult
	for i := 1; i+1 < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}

		fields, ok := values[i+1].([]interface{})
		if !ok {
			continue
		}

		results = append(results, parseSearchResult(strings.TrimPrefix(key, keyPrefix), fields))
	}

	return results, nil
}

// parseSearchResult decodes one document and its distance score.
func parseSearchResult(id string, fields []interface{}) llm.SearchResult {
	doc := llm.Document{
		ID:       id,
		Metadata: make(map[string]interface{}),
	}
	var score float32

	for i := 0; i+1 < len(fields); i += 2 {
		name, ok := fields[i].(string)
		if !ok {
			continue
		}
		value, ok := fields[i+1].(string)
		if !ok {
			continue
		}

		switch name {
		case fieldContent:
			doc.Content = value
		case fieldDocType:
			doc.DocType = llm.DocType(value)
		case fieldMetadata:
			_ = json.Unmarshal([]byte(value), &doc.Metadata)
		case fieldScore:
			if dist, err := strconv.ParseFloat(value, 32); err == nil {
				score = 1 - float32(dist)
			}
		}
	}

	return llm.SearchResult{Document: doc, Score: score}
}

// Count returns the number of documents in the index.
func (s *RedisIndex) Count(ctx context.Context) (int64, error) {
	info, err := s.client.Do(ctx, "FT.INFO", s.config.IndexName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get index info: %w", err)
	}

	values, ok := info.([]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected info format")
	}

	// num_docs comes back as int64 or string depending on server version
	for i := 0; i+1 < len(values); i += 2 {
		if key, ok := values[i].(string); ok && key == "num_docs" {
			switch v := values[i+1].(type) {
			case int64:
				return v, nil
			case string:
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					return n, nil
				}
			}
		}
	}

	return 0, nil
}

// Close closes the Redis connection
func (s *RedisIndex) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
