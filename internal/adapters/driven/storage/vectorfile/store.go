// Package vectorfile provides a single-file vector store with exact
// brute-force L2 search.
//
// The on-disk layout is a small header (magic, version, dimensionality,
// row count) followed by one row per vector: the chunk id and the
// float32 components, all little-endian. Every mutation rewrites the
// file in full and swaps it into place atomically via rename, so a
// crash mid-write leaves the previous file intact. Full rewrites are a
// known scaling limit at chunk-corpus scale, not a correctness defect.
package vectorfile

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// File format constants.
const (
	magic   = uint32(0x51565846) // "QVXF"
	version = uint32(1)

	// maxIDLen bounds chunk id length in a row header.
	maxIDLen = 1 << 10
)

// Store is a file-backed implementation of driven.VectorStore.
type Store struct {
	mu     sync.RWMutex
	path   string
	ids    []string
	vecs   [][]float32
	dim    int
	closed bool
}

// NewStore opens or creates a vector store at the given file path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Append inserts entries at the end of the store and persists.
func (s *Store) Append(_ context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}

	// Dimensionality is fixed by the first successful append.
	dim := s.dim
	if dim == 0 {
		dim = len(entries[0].Embedding)
	}
	for _, e := range entries {
		if len(e.Embedding) != dim || dim == 0 {
			return fmt.Errorf("%w: got %d, index has %d",
				domain.ErrDimensionMismatch, len(e.Embedding), dim)
		}
		// Ids past the row header bound would be rejected on the next
		// load, so they must never be written.
		if len(e.ChunkID) == 0 || len(e.ChunkID) > maxIDLen {
			return fmt.Errorf("%w: chunk id length %d, want 1..%d",
				domain.ErrInvalidInput, len(e.ChunkID), maxIDLen)
		}
	}

	ids := make([]string, 0, len(s.ids)+len(entries))
	ids = append(ids, s.ids...)
	vecs := make([][]float32, 0, len(s.vecs)+len(entries))
	vecs = append(vecs, s.vecs...)
	for _, e := range entries {
		vec := make([]float32, dim)
		copy(vec, e.Embedding)
		ids = append(ids, e.ChunkID)
		vecs = append(vecs, vec)
	}

	if err := s.persist(ids, vecs, dim); err != nil {
		return err
	}

	s.ids = ids
	s.vecs = vecs
	s.dim = dim
	return nil
}

// Remove deletes the rows for the given chunk ids and persists.
func (s *Store) Remove(_ context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}

	drop := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = struct{}{}
	}

	ids := make([]string, 0, len(s.ids))
	vecs := make([][]float32, 0, len(s.vecs))
	for i, id := range s.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		ids = append(ids, id)
		vecs = append(vecs, s.vecs[i])
	}

	if len(ids) == len(s.ids) {
		return nil
	}

	if err := s.persist(ids, vecs, s.dim); err != nil {
		return err
	}

	s.ids = ids
	s.vecs = vecs
	return nil
}

// Search finds the k nearest neighbours by L2 distance, ascending.
func (s *Store) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrIndexClosed
	}
	if len(s.vecs) == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d",
			domain.ErrDimensionMismatch, len(query), s.dim)
	}

	hits := make([]driven.VectorHit, len(s.vecs))
	for i, vec := range s.vecs {
		hits[i] = driven.VectorHit{
			ChunkID:  s.ids[i],
			Distance: l2Distance(query, vec),
		}
	}

	// Stable keeps insertion order for equal distances.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Dimensions returns the established dimensionality, 0 before the first append.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Len returns the number of stored vectors.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vecs)
}

// IDs returns the stored chunk ids in insertion order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases resources. The store rejects further operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.ids = nil
	s.vecs = nil
	return nil
}

// load reads the backing file into memory. A missing file is an empty store.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading vector file: %w", err)
	}

	r := &reader{data: data}
	if got := r.uint32(); got != magic {
		return fmt.Errorf("vector file %s: bad magic %#x", s.path, got)
	}
	if got := r.uint32(); got != version {
		return fmt.Errorf("vector file %s: unsupported version %d", s.path, got)
	}
	dim := int(r.uint32())
	count := int(r.uint32())
	if r.err != nil {
		return fmt.Errorf("vector file %s: truncated header", s.path)
	}

	ids := make([]string, 0, count)
	vecs := make([][]float32, 0, count)
	for i := 0; i < count; i++ {
		idLen := int(r.uint16())
		if r.err != nil || idLen == 0 || idLen > maxIDLen {
			return fmt.Errorf("vector file %s: corrupt row %d", s.path, i)
		}
		id := r.bytes(idLen)
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(r.uint32())
		}
		if r.err != nil {
			return fmt.Errorf("vector file %s: truncated row %d", s.path, i)
		}
		ids = append(ids, string(id))
		vecs = append(vecs, vec)
	}

	s.ids = ids
	s.vecs = vecs
	s.dim = dim
	return nil
}

// persist writes the full store to a temp file and renames it into place.
func (s *Store) persist(ids []string, vecs [][]float32, dim int) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".vectors-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after successful rename

	w := &writer{f: tmp}
	w.uint32(magic)
	w.uint32(version)
	w.uint32(uint32(dim))
	w.uint32(uint32(len(ids)))
	for i, id := range ids {
		w.uint16(uint16(len(id)))
		w.bytes([]byte(id))
		for _, v := range vecs[i] {
			w.uint32(math.Float32bits(v))
		}
	}
	if w.err != nil {
		tmp.Close()
		return fmt.Errorf("writing vector file: %w", w.err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing vector file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing vector file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing vector file: %w", err)
	}
	return nil
}

// l2Distance is the Euclidean distance between two equal-length vectors.
func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// reader decodes little-endian values from a byte slice.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = errors.New("unexpected end of data")
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) uint16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) uint32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// writer encodes little-endian values to a file.
type writer struct {
	f   *os.File
	err error
}

func (w *writer) bytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.Write(b)
}

func (w *writer) uint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.bytes(b[:])
}

func (w *writer) uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.bytes(b[:])
}
