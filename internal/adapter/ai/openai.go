package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type openAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func newOpenAIEmbedder(cfg *Config) *openAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.EmbedModel,
		dim:    cfg.Dim,
	}
}

func (e *openAIEmbedder) Dim() int      { return e.dim }
func (e *openAIEmbedder) Model() string { return e.model }

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *openAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", e.model, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d inputs", e.model, len(resp.Data), len(texts))
	}

	vecs := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		if len(d.Embedding) != e.dim {
			return nil, fmt.Errorf("embed %s: vector %d has dim %d, configured dim is %d", e.model, i, len(d.Embedding), e.dim)
		}
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

type openAICompleter struct {
	client *openai.Client
	model  string
}

func newOpenAICompleter(cfg *Config) *openAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAICompleter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.CompletionModel,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, contextBlock, question string) (string, error) {
	userPrompt := fmt.Sprintf("Context from notes:\n%s\n\nQuestion: %s\n\nAnswer:", contextBlock, question)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   700,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusServiceUnavailable {
			return "", fmt.Errorf("%w: %v", ErrModelLoading, err)
		}
		return "", fmt.Errorf("complete %s: %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("complete %s: empty response", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}
