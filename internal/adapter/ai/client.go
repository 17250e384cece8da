package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrModelLoading marks a transient backend state: the hosted model is still
// warming up and the same request is expected to succeed shortly. Callers
// should tell the user to retry rather than treat it as a hard failure.
var ErrModelLoading = errors.New("model is still loading")

// Embedder turns text into a fixed-dimension vector. The same provider and
// model must be used at ingestion and query time; the persisted manifest
// records the model id so the query engine can enforce that.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dim() int
	Model() string
}

// Completer produces a natural-language answer from retrieved note context
// and the user's question.
type Completer interface {
	Complete(ctx context.Context, contextBlock, question string) (string, error)
}

type Provider string

const (
	ProviderHuggingFace Provider = "huggingface"
	ProviderOpenAI      Provider = "openai"
)

// Config holds provider settings shared by the embedding and completion
// clients. BaseURL is only overridden in tests.
type Config struct {
	Provider        Provider
	APIKey          string
	EmbedModel      string
	CompletionModel string
	Dim             int
	Timeout         time.Duration
	BaseURL         string
}

const systemPrompt = `You are a helpful senior student answering questions from uploaded course notes.
Answer ONLY from the provided context. If the context does not contain the answer, say so plainly.
Keep answers clear and short.`

// NewEmbedder builds the embedding client for the configured provider.
func NewEmbedder(cfg *Config) (Embedder, error) {
	if cfg.Dim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", cfg.Dim)
	}
	switch cfg.Provider {
	case ProviderHuggingFace:
		return newHFEmbedder(cfg), nil
	case ProviderOpenAI:
		return newOpenAIEmbedder(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// NewCompleter builds the completion client for the configured provider.
func NewCompleter(cfg *Config) (Completer, error) {
	switch cfg.Provider {
	case ProviderHuggingFace:
		return newHFCompleter(cfg), nil
	case ProviderOpenAI:
		return newOpenAICompleter(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
