package ingest

import (
	"fmt"
	"strings"
	"testing"

	"campusvibe/internal/domain/entity"
)

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 4, overlap: 1, wantErr: false},
		{name: "zero overlap", size: 4, overlap: 0, wantErr: false},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "overlap equals size", size: 4, overlap: 4, wantErr: true},
		{name: "overlap above size", size: 4, overlap: 5, wantErr: true},
		{name: "negative overlap", size: 4, overlap: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestChunkTextWindows(t *testing.T) {
	c, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	chunks := c.ChunkText("A B C D E F G H")
	want := []string{"A B C D", "D E F G", "G H"}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(want))
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkTextEdgeCases(t *testing.T) {
	c, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.ChunkText(""); len(got) != 0 {
		t.Errorf("empty text: got %v, want no chunks", got)
	}
	if got := c.ChunkText("   \n\t  "); len(got) != 0 {
		t.Errorf("whitespace text: got %v, want no chunks", got)
	}
	if got := c.ChunkText("one two"); len(got) != 1 || got[0] != "one two" {
		t.Errorf("short text: got %v, want single chunk", got)
	}
	// whitespace runs collapse
	if got := c.ChunkText("a   b\n\nc"); len(got) != 1 || got[0] != "a b c" {
		t.Errorf("normalization: got %v, want [a b c]", got)
	}
}

func TestChunkCountFormula(t *testing.T) {
	// ceil((L - O) / (S - O)) chunks for L > O
	cases := []struct {
		words   int
		size    int
		overlap int
	}{
		{words: 8, size: 4, overlap: 1},
		{words: 100, size: 10, overlap: 3},
		{words: 57, size: 16, overlap: 4},
		{words: 10, size: 10, overlap: 2},
		{words: 11, size: 10, overlap: 2},
		{words: 33, size: 5, overlap: 0},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("L%d_S%d_O%d", tc.words, tc.size, tc.overlap), func(t *testing.T) {
			c, err := NewChunker(tc.size, tc.overlap)
			if err != nil {
				t.Fatal(err)
			}

			words := make([]string, tc.words)
			for i := range words {
				words[i] = fmt.Sprintf("w%d", i)
			}
			chunks := c.ChunkText(strings.Join(words, " "))

			step := tc.size - tc.overlap
			want := (tc.words - tc.overlap + step - 1) / step
			if tc.words <= tc.size {
				want = 1
			}
			if len(chunks) != want {
				t.Fatalf("got %d chunks, want %d", len(chunks), want)
			}

			for i, chunk := range chunks {
				if n := len(strings.Fields(chunk)); n > tc.size {
					t.Errorf("chunk %d has %d words, max is %d", i, n, tc.size)
				}
			}

			// trailing O words of chunk k == leading O words of chunk k+1
			for i := 0; i+1 < len(chunks); i++ {
				cur := strings.Fields(chunks[i])
				next := strings.Fields(chunks[i+1])
				tail := strings.Join(cur[len(cur)-tc.overlap:], " ")
				head := strings.Join(next[:tc.overlap], " ")
				if tail != head {
					t.Errorf("chunks %d/%d overlap mismatch: %q vs %q", i, i+1, tail, head)
				}
			}
		})
	}
}

func TestChunkAssignsStableIDs(t *testing.T) {
	c, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	doc := entity.Document{ID: "os/unit1.txt", Text: "A B C D E F G H", Source: "txt"}

	first := c.Chunk(doc)
	second := c.Chunk(doc)
	if len(first) != 3 {
		t.Fatalf("got %d chunks, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
		if first[i].DocumentID != doc.ID || first[i].Ordinal != i {
			t.Errorf("chunk %d has wrong provenance: %+v", i, first[i])
		}
	}
	if first[0].ID == first[1].ID {
		t.Error("chunk ids are not unique")
	}
}
