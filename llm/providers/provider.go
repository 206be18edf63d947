package providers

import (
	"context"
	"fmt"
	"os"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// ChatModelConfig defines the configuration for creating a chat model.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewChatModel creates an OpenAI-compatible chat model from specific configuration.
func NewChatModel(ctx context.Context, config *ChatModelConfig) (model.BaseChatModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}

	modelName := config.Model
	if modelName == "" {
		modelName = "mistral-saba-24b"
	}

	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  config.APIKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// CreateChatModel creates an OpenAI-compatible chat model from environment variables.
// Required environment variables:
//   - API_KEY: API key for the LLM provider
//
// Optional environment variables:
//   - BASE_URL: Base URL for OpenAI-compatible API (default: https://api.groq.com/openai/v1)
//   - MODEL: Model name (default: mistral-saba-24b)
func CreateChatModel(ctx context.Context) (model.BaseChatModel, error) {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable is required")
	}

	return NewChatModel(ctx, &ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("BASE_URL"),
		Model:   os.Getenv("MODEL"),
	})
}

// CreateGeminiModel creates a Google Gemini chat model from environment variables.
// Required environment variables:
//   - GEMINI_API_KEY: API key for Google Gemini
//
// Optional environment variables:
//   - GEMINI_MODEL: Model name (default: gemini-2.0-flash)
func CreateGeminiModel(ctx context.Context) (model.BaseChatModel, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required when using gemini provider")
	}

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client: client,
		Model:  modelName,
	})
}

// CreateChatModelFor selects the chat model constructor for the configured
// provider name.
func CreateChatModelFor(ctx context.Context, provider string) (model.BaseChatModel, error) {
	if provider == "gemini" {
		return CreateGeminiModel(ctx)
	}
	return CreateChatModel(ctx)
}

// EmbeddingConfig defines the configuration for creating an embedding model.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewEmbeddingModel creates an OpenAI-compatible embedding model from specific configuration.
func NewEmbeddingModel(ctx context.Context, config *EmbeddingConfig) (einoEmbedding.Embedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required in config")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	modelName := config.Model
	if modelName == "" {
		modelName = "text-embedding-3-small"
	}

	return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  config.APIKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// CreateEmbeddingModel creates an OpenAI-compatible embedding model from environment variables.
// Required environment variables:
//   - EMBEDDING_API_KEY: API key for the embedding provider
//
// Optional environment variables:
//   - EMBEDDING_BASE_URL: Base URL for OpenAI-compatible API (default: https://api.openai.com/v1)
//   - EMBEDDING_MODEL: Model name (default: text-embedding-3-small)
func CreateEmbeddingModel(ctx context.Context) (einoEmbedding.Embedder, error) {
	apiKey := os.Getenv("EMBEDDING_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("EMBEDDING_API_KEY environment variable is required")
	}

	return NewEmbeddingModel(ctx, &EmbeddingConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("EMBEDDING_BASE_URL"),
		Model:   os.Getenv("EMBEDDING_MODEL"),
	})
}
