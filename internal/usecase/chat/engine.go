package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusvibe/internal/adapter/ai"
	"campusvibe/internal/domain/entity"
	"campusvibe/internal/index"

	"github.com/rs/zerolog/log"
)

// ErrUnavailable marks an engine whose storage bundle could not be loaded.
// Every Ask fails with it; nothing is retried per query.
var ErrUnavailable = errors.New("ai engine unavailable")

const noContextAnswer = "Sorry, I could not find anything about that in the uploaded notes."

// Engine answers questions over the persisted note index. It is constructed
// once at process start; the loaded storage is read-only and safe to share
// across concurrent requests.
type Engine struct {
	storage   *index.Storage
	embedder  ai.Embedder
	completer ai.Completer
	topK      int
	timeout   time.Duration
	loadErr   error
}

// NewEngine loads the storage bundle from storageDir. A missing or corrupt
// bundle produces an unavailable engine, not an error: the application keeps
// serving notes with the chat degraded to a friendly message. A mismatch
// between the persisted embedding model and the configured one is a
// configuration error and does fail construction.
func NewEngine(storageDir string, embedder ai.Embedder, completer ai.Completer, topK int, timeout time.Duration) (*Engine, error) {
	if topK <= 0 {
		topK = 2
	}
	e := &Engine{
		embedder:  embedder,
		completer: completer,
		topK:      topK,
		timeout:   timeout,
	}

	st, err := index.Load(storageDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", storageDir).Msg("storage bundle not loadable, chat runs in unavailable mode")
		e.loadErr = err
		return e, nil
	}

	// the index is only meaningful with the embedding model that built it
	if st.Manifest.EmbedModel != embedder.Model() {
		return nil, fmt.Errorf("index was built with embedding model %q but %q is configured",
			st.Manifest.EmbedModel, embedder.Model())
	}
	if st.Manifest.Count > 0 && st.Manifest.Dim != embedder.Dim() {
		return nil, fmt.Errorf("index dimension %d does not match configured embedder dimension %d",
			st.Manifest.Dim, embedder.Dim())
	}

	e.storage = st
	return e, nil
}

// Available reports whether the storage bundle loaded at construction.
func (e *Engine) Available() bool { return e.storage != nil }

// Ask retrieves the nearest chunks to the question and has the completion
// backend answer from them. The completion call is bounded by the engine
// timeout so a hung remote call cannot block the caller indefinitely.
func (e *Engine) Ask(ctx context.Context, question string) (string, []entity.ScoredChunk, error) {
	if e.storage == nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnavailable, e.loadErr)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, errors.New("question is empty")
	}

	vec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := e.storage.Index.Search(vec, e.topK)
	if err != nil {
		return "", nil, err
	}
	if len(results) == 0 {
		return noContextAnswer, nil, nil
	}

	retrieved := make([]entity.ScoredChunk, 0, len(results))
	var sb strings.Builder
	for _, r := range results {
		chunk := e.storage.Chunks[r.ChunkID]
		retrieved = append(retrieved, entity.ScoredChunk{Chunk: chunk, Distance: r.Distance})
		fmt.Fprintf(&sb, "[%s]\n%s\n\n", chunk.DocumentID, chunk.Text)
	}

	cctx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	answer, err := e.completer.Complete(cctx, sb.String(), question)
	if err != nil {
		return "", retrieved, err
	}
	return answer, retrieved, nil
}
