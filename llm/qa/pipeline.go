// Package qa implements the retrieval-augmented answering pipeline: embed the
// question, retrieve the nearest documents, stuff them into the answer prompt
// and call the chat model.
package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"remedy/llm"
	"remedy/llm/vector"
)

// Defaults applied when the config leaves the tunables zero.
const (
	defaultTopK        = 4
	defaultTemperature = 0.2
)

// Answer is the result of one question/answer turn.
type Answer struct {
	// Text is the raw model completion, without the sources line or the
	// disclaimer the session appends.
	Text string

	// CitedTypes lists the distinct doc types among the retrieved documents,
	// in first-retrieval order.
	CitedTypes []string
}

// Config assembles the pipeline collaborators and tunables.
type Config struct {
	// Embedding must be the same service the index was built with, otherwise
	// similarity scores are meaningless.
	Embedding *vector.EmbeddingService

	// Index is the read-only document index built at startup.
	Index vector.Index

	// ChatModel generates the answer text.
	ChatModel model.BaseChatModel

	// TopK is the number of documents retrieved per question (default 4).
	TopK int

	// Temperature is the sampling temperature in [0,1]. Nil selects the
	// default 0.2; an explicit zero is passed to the model as-is.
	Temperature *float32

	Logger zerolog.Logger
}

// Pipeline answers pharmaceutical questions against the document index.
// It holds no per-question state and is safe for sequential reuse across
// turns; failures are reported per turn and never poison the index.
type Pipeline struct {
	embedding   *vector.EmbeddingService
	index       vector.Index
	chatModel   model.BaseChatModel
	topK        int
	temperature float32
	log         zerolog.Logger
}

// NewPipeline validates the config and creates a pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Embedding == nil {
		return nil, fmt.Errorf("embedding service is required")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if cfg.ChatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	temperature := float32(defaultTemperature)
	if cfg.Temperature != nil {
		if *cfg.Temperature < 0 || *cfg.Temperature > 1 {
			return nil, fmt.Errorf("temperature must be within [0, 1], got %g", *cfg.Temperature)
		}
		temperature = *cfg.Temperature
	}

	return &Pipeline{
		embedding:   cfg.Embedding,
		index:       cfg.Index,
		chatModel:   cfg.ChatModel,
		topK:        topK,
		temperature: temperature,
		log:         cfg.Logger.With().Str("component", "qa").Logger(),
	}, nil
}

// Answer runs one full turn: embed the question, retrieve the top-k nearest
// documents, render the prompt and generate the completion. Every failure is
// a GenerationError local to this turn; there is no retry and no caching.
func (p *Pipeline) Answer(ctx context.Context, question string) (Answer, error) {
	// Blank input is rejected up front; everything else reaches the
	// embedder and the prompt unmodified.
	if strings.TrimSpace(question) == "" {
		return Answer{}, llm.WrapGeneration(fmt.Errorf("question is empty"))
	}

	queryVector, err := p.embedding.Embed(ctx, question)
	if err != nil {
		return Answer{}, llm.WrapGeneration(fmt.Errorf("embed question: %w", err))
	}

	results, err := p.index.Search(ctx, queryVector, p.topK)
	if err != nil {
		return Answer{}, llm.WrapGeneration(fmt.Errorf("retrieve context: %w", err))
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Document.Content
	}

	prompt := renderPrompt(contents, question)
	msg, err := p.chatModel.Generate(ctx,
		[]*schema.Message{{Role: schema.User, Content: prompt}},
		model.WithTemperature(p.temperature),
	)
	if err != nil {
		return Answer{}, llm.WrapGeneration(err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Answer{}, llm.WrapGeneration(fmt.Errorf("model returned no completion"))
	}

	citedTypes := collectCitedTypes(results)
	p.log.Debug().
		Int("retrieved", len(results)).
		Strs("cited_types", citedTypes).
		Msg("turn answered")

	return Answer{Text: msg.Content, CitedTypes: citedTypes}, nil
}

// collectCitedTypes collapses the doc types of the retrieved documents into a
// duplicate-free list, keeping first-retrieval order.
func collectCitedTypes(results []llm.SearchResult) []string {
	seen := make(map[llm.DocType]struct{}, len(results))
	types := make([]string, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Document.DocType]; ok {
			continue
		}
		seen[r.Document.DocType] = struct{}{}
		types = append(types, string(r.Document.DocType))
	}
	return types
}
