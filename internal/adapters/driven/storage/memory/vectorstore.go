package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore for
// testing and ephemeral use. Same semantics as the file-backed store,
// minus durability.
type VectorStore struct {
	mu   sync.RWMutex
	ids  []string
	vecs [][]float32
	dim  int
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Append inserts entries at the end of the store.
func (s *VectorStore) Append(_ context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dim
	if dim == 0 {
		dim = len(entries[0].Embedding)
	}
	for _, e := range entries {
		if len(e.Embedding) != dim || dim == 0 {
			return domain.ErrDimensionMismatch
		}
	}

	for _, e := range entries {
		vec := make([]float32, dim)
		copy(vec, e.Embedding)
		s.ids = append(s.ids, e.ChunkID)
		s.vecs = append(s.vecs, vec)
	}
	s.dim = dim
	return nil
}

// Remove deletes the rows for the given chunk ids.
func (s *VectorStore) Remove(_ context.Context, chunkIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = struct{}{}
	}

	ids := s.ids[:0]
	vecs := s.vecs[:0]
	for i, id := range s.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		ids = append(ids, id)
		vecs = append(vecs, s.vecs[i])
	}
	s.ids = ids
	s.vecs = vecs
	return nil
}

// Search finds the k nearest neighbours by L2 distance, ascending.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vecs) == 0 {
		return nil, nil
	}
	if len(query) != s.dim {
		return nil, domain.ErrDimensionMismatch
	}

	hits := make([]driven.VectorHit, len(s.vecs))
	for i, vec := range s.vecs {
		var sum float64
		for j := range vec {
			d := float64(query[j]) - float64(vec[j])
			sum += d * d
		}
		hits[i] = driven.VectorHit{ChunkID: s.ids[i], Distance: math.Sqrt(sum)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Dimensions returns the established dimensionality.
func (s *VectorStore) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// Len returns the number of stored vectors.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vecs)
}

// IDs returns the stored chunk ids in insertion order.
func (s *VectorStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
