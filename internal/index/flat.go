package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

var (
	// ErrDimensionMismatch is returned when a vector's length disagrees with
	// the dimension established by the index's first insertion.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Result is one nearest-neighbor hit: the chunk behind a stored row and its
// L2 distance to the query vector.
type Result struct {
	ChunkID  string
	Row      int
	Distance float32
}

// Flat is a brute-force L2 nearest-neighbor store. Rows are append-only;
// row order is insertion order and is the tie-breaker for equal distances.
// Safe for concurrent reads once ingestion has finished.
type Flat struct {
	mu      sync.RWMutex
	dim     int
	vectors []float32 // row-major, len = count*dim
	rows    []string  // row -> chunk id
}

func NewFlat() *Flat { return &Flat{} }

// Add appends a vector. The first insertion fixes the index dimension.
func (ix *Flat) Add(vec []float32, chunkID string) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.dim == 0 {
		ix.dim = len(vec)
	} else if len(vec) != ix.dim {
		return fmt.Errorf("%w: index dim=%d, got %d", ErrDimensionMismatch, ix.dim, len(vec))
	}

	ix.vectors = append(ix.vectors, vec...)
	ix.rows = append(ix.rows, chunkID)
	return nil
}

// Search returns the k rows with smallest L2 distance to the query, ascending
// by distance, ties broken by insertion order. k is capped at the index size;
// searching an empty index yields an empty result.
func (ix *Flat) Search(query []float32, k int) ([]Result, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	n := len(ix.rows)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: index dim=%d, query dim=%d", ErrDimensionMismatch, ix.dim, len(query))
	}
	if k > n {
		k = n
	}

	results := make([]Result, n)
	for row := 0; row < n; row++ {
		off := row * ix.dim
		var sum float32
		for i, q := range query {
			d := ix.vectors[off+i] - q
			sum += d * d
		}
		results[row] = Result{ChunkID: ix.rows[row], Row: row, Distance: float32(math.Sqrt(float64(sum)))}
	}

	// stable sort keeps insertion order on equal distances
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})

	return results[:k], nil
}

func (ix *Flat) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.rows)
}

func (ix *Flat) Dim() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.dim
}

// vectorAt copies out the vector stored at the given row.
func (ix *Flat) vectorAt(row int) []float32 {
	out := make([]float32, ix.dim)
	copy(out, ix.vectors[row*ix.dim:(row+1)*ix.dim])
	return out
}
