package ingest

import (
	"fmt"
	"strings"

	"campusvibe/internal/domain/entity"
)

// Chunker splits document text into word windows of at most size words,
// with consecutive windows sharing exactly overlap words. Splitting is
// deterministic: the same text always yields the same chunk sequence.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got size=%d overlap=%d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// ChunkText returns the window texts. Whitespace runs collapse to single
// spaces; empty text yields no chunks.
func (c *Chunker) ChunkText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + c.size
		if end >= len(words) {
			chunks = append(chunks, strings.Join(words[start:], " "))
			break
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Chunk splits a document and assigns deterministic chunk ids, so a rebuild
// over unchanged input reproduces the same ids.
func (c *Chunker) Chunk(doc entity.Document) []entity.Chunk {
	texts := c.ChunkText(doc.Text)
	chunks := make([]entity.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = entity.Chunk{
			ID:         fmt.Sprintf("%s#%04d", doc.ID, i),
			DocumentID: doc.ID,
			Ordinal:    i,
			Text:       t,
			Source:     doc.Source,
		}
	}
	return chunks
}
