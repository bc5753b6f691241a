// Package hashing provides a deterministic, model-free embedding service.
//
// It derives pseudo-embeddings from an FNV hash of the input text. The
// vectors carry no semantic meaning, but they are stable across processes
// and platforms, which keeps the system testable and operable when no
// embedding model is available. It is the degraded-mode half of the
// fallback adapter.
package hashing

import (
	"context"
	"hash/fnv"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions matches the dimensionality of common lightweight
// sentence-embedding models so the hashing embedder can stand in for one.
const DefaultDimensions = 384

// modelName identifies this embedder in capability reports.
const modelName = "fnv-hash"

// EmbeddingService generates deterministic pseudo-embeddings.
// It performs no I/O and never fails.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedding service.
// Non-positive dimensions select the default.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a pseudo-embedding for the given text.
// Identical text always produces an identical vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text)) //nolint:errcheck // hash.Hash never errors
	base := h.Sum64()

	embedding := make([]float32, s.dimensions)
	for i := range embedding {
		embedding[i] = float32((base+uint64(i))%1000) / 1000.0
	}
	return embedding, nil
}

// EmbedBatch generates pseudo-embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// Ping always succeeds; there is no backend to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
