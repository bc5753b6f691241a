// Package fallback composes a primary embedding service with a degraded
// deterministic one. Primary failures are logged as degraded-mode events
// and served from the fallback instead of propagating to the caller.
package fallback

import (
	"context"
	"fmt"
	"sync"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService wraps a primary embedder with a degraded fallback.
// Both must produce vectors of the same dimensionality so callers are
// agnostic to which one answered.
type EmbeddingService struct {
	primary  driven.EmbeddingService
	degraded driven.EmbeddingService

	mu    sync.RWMutex
	fired bool
}

// NewEmbeddingService creates a fallback embedding service.
// Returns an error when the two embedders disagree on dimensionality.
func NewEmbeddingService(primary, degraded driven.EmbeddingService) (*EmbeddingService, error) {
	if primary == nil || degraded == nil {
		return nil, fmt.Errorf("fallback: both primary and degraded embedders are required")
	}
	if primary.Dimensions() != degraded.Dimensions() {
		return nil, fmt.Errorf("fallback: dimension mismatch: primary %d, degraded %d",
			primary.Dimensions(), degraded.Dimensions())
	}
	return &EmbeddingService{primary: primary, degraded: degraded}, nil
}

// Embed generates an embedding via the primary service, falling back to
// the degraded one when the primary fails.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := s.primary.Embed(ctx, text)
	if err != nil {
		s.markDegraded(err)
		return s.degraded.Embed(ctx, text)
	}
	return embedding, nil
}

// EmbedBatch generates embeddings via the primary service, falling back
// to the degraded one when the primary fails. The whole batch is served
// from one implementation so vectors stay comparable within a request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := s.primary.EmbedBatch(ctx, texts)
	if err != nil {
		s.markDegraded(err)
		return s.degraded.EmbedBatch(ctx, texts)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.primary.Dimensions()
}

// ModelName returns the primary model name, or the degraded one once
// the fallback has fired.
func (s *EmbeddingService) ModelName() string {
	if s.Degraded() {
		return s.degraded.ModelName()
	}
	return s.primary.ModelName()
}

// Ping checks the primary service. It never fails: an unreachable
// primary marks the service degraded, and the degraded embedder is
// always available.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.primary.Ping(ctx); err != nil {
		s.markDegraded(err)
	}
	return nil
}

// Degraded reports whether the fallback has served at least one request.
func (s *EmbeddingService) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fired
}

// Close releases both embedders.
func (s *EmbeddingService) Close() error {
	perr := s.primary.Close()
	derr := s.degraded.Close()
	if perr != nil {
		return perr
	}
	return derr
}

// markDegraded records the failover. The first occurrence is logged as a
// degraded-mode event, not silently absorbed.
func (s *EmbeddingService) markDegraded(cause error) {
	s.mu.Lock()
	first := !s.fired
	s.fired = true
	s.mu.Unlock()

	if first {
		logger.Warn("Embedding backend failed, switching to degraded hashing embedder: %v", cause)
	} else {
		logger.Debug("Embedding backend still failing, serving degraded embedding: %v", cause)
	}
}
