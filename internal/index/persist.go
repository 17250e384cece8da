package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"campusvibe/internal/domain/entity"

	"go.etcd.io/bbolt"
)

// ErrCorrupt is returned by Load when any persisted artifact is missing or
// the artifacts disagree with each other.
var ErrCorrupt = errors.New("corrupt index storage")

const (
	vectorsFile  = "vectors.bin"
	manifestFile = "manifest.json"
	chunksFile   = "chunks.db"

	// vectors.bin layout (v1):
	//   0..7   magic "CVIX0001"
	//   8..11  dim (uint32 LE)
	//   12..15 count (uint32 LE)
	//   16..   count*dim float32 LE, row-major
	blobHeaderSize = 16
)

var blobMagic = [8]byte{'C', 'V', 'I', 'X', '0', '0', '0', '1'}

var bucketChunks = []byte("chunks")

// Manifest records what was indexed and with which embedding model. The
// query engine refuses to serve when its configured model disagrees.
type Manifest struct {
	EmbedModel string    `json:"embedModel"`
	Dim        int       `json:"dim"`
	Count      int       `json:"count"`
	Rows       []string  `json:"rows"` // row id -> chunk id
	CreatedAt  time.Time `json:"createdAt"`
}

// Storage is the loaded bundle: the vector index plus the chunk metadata
// needed to resolve search hits back to text. Read-only after Load.
type Storage struct {
	Index    *Flat
	Manifest Manifest
	Chunks   map[string]entity.Chunk
}

// Persist writes the index and its chunk metadata under dir with atomic
// replacement semantics: everything lands in a temp directory first and is
// swapped into place by rename, so a crash mid-write leaves a previously
// valid bundle intact.
func Persist(dir, embedModel string, ix *Flat, chunks []entity.Chunk) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(chunks) != len(ix.rows) {
		return fmt.Errorf("persist: %d chunks for %d index rows", len(chunks), len(ix.rows))
	}
	byID := make(map[string]entity.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}
	for _, id := range ix.rows {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("persist: no chunk metadata for row id %s", id)
		}
	}

	parent := filepath.Dir(filepath.Clean(dir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(parent, ".index-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := writeVectors(filepath.Join(tmp, vectorsFile), ix); err != nil {
		return err
	}
	if err := writeChunks(filepath.Join(tmp, chunksFile), ix.rows, byID); err != nil {
		return err
	}

	manifest := Manifest{
		EmbedModel: embedModel,
		Dim:        ix.dim,
		Count:      len(ix.rows),
		Rows:       ix.rows,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tmp, manifestFile), data, 0o644); err != nil {
		return err
	}

	// swap into place; the old bundle stays valid until the final rename
	old := dir + ".old"
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(old); err != nil {
			return err
		}
		if err := os.Rename(dir, old); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Load reads the bundle persisted under dir. Any missing artifact or
// disagreement between blob, manifest, and chunk store yields ErrCorrupt.
func Load(dir string) (*Storage, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrCorrupt, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %v", ErrCorrupt, err)
	}
	if len(manifest.Rows) != manifest.Count {
		return nil, fmt.Errorf("%w: manifest count=%d but %d rows", ErrCorrupt, manifest.Count, len(manifest.Rows))
	}

	ix, err := readVectors(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, err
	}
	if ix.Len() != manifest.Count || (manifest.Count > 0 && ix.Dim() != manifest.Dim) {
		return nil, fmt.Errorf("%w: blob has %d rows dim=%d, manifest says %d rows dim=%d",
			ErrCorrupt, ix.Len(), ix.Dim(), manifest.Count, manifest.Dim)
	}
	ix.rows = manifest.Rows

	chunks, err := readChunks(filepath.Join(dir, chunksFile), manifest.Rows)
	if err != nil {
		return nil, err
	}

	return &Storage{Index: ix, Manifest: manifest, Chunks: chunks}, nil
}

func writeVectors(path string, ix *Flat) error {
	buf := make([]byte, blobHeaderSize+4*len(ix.vectors))
	copy(buf[:8], blobMagic[:])
	binary.LittleEndian.PutUint32(buf[8:12], uint32(ix.dim))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(ix.rows)))
	for i, v := range ix.vectors {
		binary.LittleEndian.PutUint32(buf[blobHeaderSize+4*i:], math.Float32bits(v))
	}
	return os.WriteFile(path, buf, 0o644)
}

func readVectors(path string) (*Flat, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read vectors: %v", ErrCorrupt, err)
	}
	if len(buf) < blobHeaderSize {
		return nil, fmt.Errorf("%w: vectors file too small for header", ErrCorrupt)
	}
	var magic [8]byte
	copy(magic[:], buf[:8])
	if magic != blobMagic {
		return nil, fmt.Errorf("%w: bad vectors magic", ErrCorrupt)
	}
	dim := int(binary.LittleEndian.Uint32(buf[8:12]))
	count := int(binary.LittleEndian.Uint32(buf[12:16]))
	if len(buf) != blobHeaderSize+4*dim*count {
		return nil, fmt.Errorf("%w: vectors file is %d bytes, want %d for dim=%d count=%d",
			ErrCorrupt, len(buf), blobHeaderSize+4*dim*count, dim, count)
	}

	ix := NewFlat()
	if count > 0 {
		ix.dim = dim
	}
	ix.vectors = make([]float32, dim*count)
	for i := range ix.vectors {
		ix.vectors[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[blobHeaderSize+4*i:]))
	}
	ix.rows = make([]string, count)
	return ix, nil
}

func writeChunks(path string, rows []string, byID map[string]entity.Chunk) error {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketChunks)
		if err != nil {
			return err
		}
		for _, id := range rows {
			data, err := json.Marshal(byID[id])
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func readChunks(path string, rows []string) (map[string]entity.Chunk, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: chunk store: %v", ErrCorrupt, err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open chunk store: %v", ErrCorrupt, err)
	}
	defer db.Close()

	chunks := make(map[string]entity.Chunk, len(rows))
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		if b == nil {
			return fmt.Errorf("%w: chunk bucket missing", ErrCorrupt)
		}
		for _, id := range rows {
			data := b.Get([]byte(id))
			if data == nil {
				return fmt.Errorf("%w: chunk %s missing from store", ErrCorrupt, id)
			}
			var c entity.Chunk
			if err := json.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("%w: decode chunk %s: %v", ErrCorrupt, id, err)
			}
			chunks[id] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}
