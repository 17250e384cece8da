package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHFBaseURL = "https://api-inference.huggingface.co"

type hfEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	dim     int
	client  *http.Client
}

func newHFEmbedder(cfg *Config) *hfEmbedder {
	base := cfg.BaseURL
	if base == "" {
		base = defaultHFBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &hfEmbedder{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.EmbedModel,
		dim:     cfg.Dim,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *hfEmbedder) Dim() int      { return e.dim }
func (e *hfEmbedder) Model() string { return e.model }

func (e *hfEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *hfEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(map[string]interface{}{
		"inputs":  texts,
		"options": map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", e.baseURL, e.model)
	data, err := doHFRequest(ctx, e.client, url, e.apiKey, body)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", e.model, err)
	}

	var vecs [][]float32
	if err := json.Unmarshal(data, &vecs); err != nil {
		return nil, fmt.Errorf("embed %s: decode response: %w", e.model, err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d inputs", e.model, len(vecs), len(texts))
	}
	for i, v := range vecs {
		if len(v) != e.dim {
			return nil, fmt.Errorf("embed %s: vector %d has dim %d, configured dim is %d", e.model, i, len(v), e.dim)
		}
	}
	return vecs, nil
}

type hfCompleter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newHFCompleter(cfg *Config) *hfCompleter {
	base := cfg.BaseURL
	if base == "" {
		base = defaultHFBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &hfCompleter{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.CompletionModel,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *hfCompleter) Complete(ctx context.Context, contextBlock, question string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nContext from notes:\n%s\n\nQuestion: %s\n\nAnswer:",
		systemPrompt, contextBlock, question)

	body, err := json.Marshal(map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_new_tokens":   512,
			"temperature":      0.7,
			"return_full_text": false,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	data, err := doHFRequest(ctx, c.client, url, c.apiKey, body)
	if err != nil {
		return "", fmt.Errorf("complete %s: %w", c.model, err)
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("complete %s: decode response: %w", c.model, err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("complete %s: empty response", c.model)
	}
	return strings.TrimSpace(out[0].GeneratedText), nil
}

// doHFRequest posts to the inference API. A 503 means the hosted model is
// still spinning up, which is a retryable condition, not a hard failure.
func doHFRequest(ctx context.Context, client *http.Client, url, apiKey string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		var apiErr struct {
			Error         string  `json:"error"`
			EstimatedTime float64 `json:"estimated_time"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return nil, fmt.Errorf("%w: %s (estimated %.0fs)", ErrModelLoading, apiErr.Error, apiErr.EstimatedTime)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
