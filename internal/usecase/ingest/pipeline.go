package ingest

import (
	"context"
	"fmt"

	"campusvibe/internal/adapter/ai"
	"campusvibe/internal/domain/entity"
	"campusvibe/internal/index"

	"github.com/rs/zerolog/log"
)

// embedBatchSize bounds the number of chunk texts sent per embedding call.
const embedBatchSize = 32

// Pipeline is the offline ingestion run: load documents, chunk, embed,
// build a fresh flat index, persist. A rebuild always starts from scratch
// and replaces prior storage wholesale; it never updates in place.
type Pipeline struct {
	dataDir    string
	storageDir string
	chunker    *Chunker
	embedder   ai.Embedder
}

func NewPipeline(dataDir, storageDir string, chunker *Chunker, embedder ai.Embedder) *Pipeline {
	return &Pipeline{
		dataDir:    dataDir,
		storageDir: storageDir,
		chunker:    chunker,
		embedder:   embedder,
	}
}

// Run executes the whole pipeline. Any failure aborts the run before
// persistence, so a previously valid index is never replaced by a partial one.
func (p *Pipeline) Run(ctx context.Context) error {
	docs, err := LoadDocuments(p.dataDir)
	if err != nil {
		return err
	}
	log.Info().Int("documents", len(docs)).Str("dir", p.dataDir).Msg("loaded documents")

	var chunks []entity.Chunk
	for _, doc := range docs {
		chunks = append(chunks, p.chunker.Chunk(doc)...)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: documents contain no text", ErrNoData)
	}
	log.Info().Int("chunks", len(chunks)).Msg("chunked documents")

	ix := index.NewFlat()
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		vecs, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding failed, aborting ingestion: %w", err)
		}
		for i, vec := range vecs {
			if err := ix.Add(vec, chunks[start+i].ID); err != nil {
				return err
			}
		}
	}
	log.Info().Int("vectors", ix.Len()).Int("dim", ix.Dim()).Msg("embedded chunks")

	if err := index.Persist(p.storageDir, p.embedder.Model(), ix, chunks); err != nil {
		return fmt.Errorf("persist index: %w", err)
	}
	log.Info().Str("dir", p.storageDir).Msg("index persisted")
	return nil
}
