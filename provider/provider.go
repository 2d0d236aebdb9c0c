package provider

import (
	"context"
	"errors"

	"github.com/hyunjin-oh/coursechat/config"
	openai_provider "github.com/hyunjin-oh/coursechat/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
)

// Provider is the interface the core depends on. The answer generator and
// the embedding model are opaque collaborators behind it.
type Provider interface {
	ChatCompletion(ctx context.Context, system, user string) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates an LLM client from configuration.
func NewProvider(client Client, cfg config.OpenAIConfig) (Provider, error) {
	switch client {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("openai api key not configured")
		}
		return openai_provider.NewOpenAIClient(
			cfg.APIKey,
			cfg.CompletionModel,
			cfg.EmbeddingModel,
			cfg.Temperature,
			cfg.MaxTokens,
			cfg.Timeout,
		), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
