package entity

// Document is one raw source file read for ingestion. It is discarded after
// chunking and never persisted itself.
type Document struct {
	ID     string // file name relative to the data directory
	Path   string
	Text   string
	Source string // file type, e.g. "pdf" or "txt"
}

// Chunk is a bounded span of a document's text, the unit of embedding and
// retrieval. Created during ingestion, never mutated afterwards.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"documentId"`
	Ordinal    int    `json:"ordinal"`
	Text       string `json:"text"`
	Source     string `json:"source,omitempty"`
}

// ScoredChunk is a retrieved chunk with its L2 distance to the query vector.
type ScoredChunk struct {
	Chunk
	Distance float32 `json:"distance"`
}
