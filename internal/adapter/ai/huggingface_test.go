package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newEmbedTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Config) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &Config{
		Provider:        ProviderHuggingFace,
		APIKey:          "test-key",
		EmbedModel:      "mini-model",
		CompletionModel: "chat-model",
		Dim:             3,
		BaseURL:         srv.URL,
	}
	return srv, cfg
}

func TestHFEmbedBatch(t *testing.T) {
	_, cfg := newEmbedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/pipeline/feature-extraction/mini-model" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req struct {
			Inputs []string `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		out := make([][]float32, len(req.Inputs))
		for i := range out {
			out[i] = []float32{float32(i), 0, 1}
		}
		json.NewEncoder(w).Encode(out)
	})

	emb, err := NewEmbedder(cfg)
	if err != nil {
		t.Fatal(err)
	}

	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || vecs[1][0] != 1 {
		t.Fatalf("vecs = %v", vecs)
	}
}

func TestHFEmbedDimensionValidation(t *testing.T) {
	_, cfg := newEmbedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([][]float32{{1, 2}}) // configured dim is 3
	})

	emb, err := NewEmbedder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := emb.Embed(context.Background(), "a"); err == nil {
		t.Fatal("dimension mismatch accepted")
	}
}

func TestHFModelLoading(t *testing.T) {
	_, cfg := newEmbedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":          "Model mini-model is currently loading",
			"estimated_time": 30.0,
		})
	})

	emb, err := NewEmbedder(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := emb.Embed(context.Background(), "a"); !errors.Is(err, ErrModelLoading) {
		t.Fatalf("embed error = %v, want ErrModelLoading", err)
	}

	com, err := NewCompleter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := com.Complete(context.Background(), "ctx", "q"); !errors.Is(err, ErrModelLoading) {
		t.Fatalf("complete error = %v, want ErrModelLoading", err)
	}
}

func TestHFComplete(t *testing.T) {
	_, cfg := newEmbedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/chat-model" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Inputs string `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Inputs == "" {
			t.Error("prompt is empty")
		}
		json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "  an answer\n"}})
	})

	com, err := NewCompleter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := com.Complete(context.Background(), "some context", "some question")
	if err != nil {
		t.Fatal(err)
	}
	if got != "an answer" {
		t.Errorf("answer = %q", got)
	}
}

func TestHFCompleteHardFailure(t *testing.T) {
	_, cfg := newEmbedTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	})

	com, err := NewCompleter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = com.Complete(context.Background(), "ctx", "q")
	if err == nil || errors.Is(err, ErrModelLoading) {
		t.Fatalf("error = %v, want a hard failure", err)
	}
}

func TestNewEmbedderValidation(t *testing.T) {
	if _, err := NewEmbedder(&Config{Provider: ProviderHuggingFace, Dim: 0}); err == nil {
		t.Error("zero dimension accepted")
	}
	if _, err := NewEmbedder(&Config{Provider: "mystery", Dim: 3}); err == nil {
		t.Error("unknown provider accepted")
	}
	if _, err := NewCompleter(&Config{Provider: "mystery"}); err == nil {
		t.Error("unknown provider accepted")
	}
}
