package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService maintains the two-half index: the chunk mapping store
// and the vector store. Writes are serialised; reads are not.
type IndexService struct {
	chunkStore       driven.ChunkStore
	vectorStore      driven.VectorStore
	embeddingService driven.EmbeddingService

	writeMu sync.Mutex
}

// NewIndexService creates a new index service.
// The vectorStore and embeddingService parameters are optional (can be
// nil); without a vector store insertions persist the mapping half only
// and searches return no results.
func NewIndexService(
	chunkStore driven.ChunkStore,
	vectorStore driven.VectorStore,
	embeddingService driven.EmbeddingService,
) *IndexService {
	return &IndexService{
		chunkStore:       chunkStore,
		vectorStore:      vectorStore,
		embeddingService: embeddingService,
	}
}

// Index stores chunks for a document and returns the assigned chunk ids
// in input order. When embeddings is nil they are computed from the
// chunk texts. Dimensionality is validated against the vector store
// before anything is persisted, so a mismatch leaves the index unmodified.
func (s *IndexService) Index(
	ctx context.Context, documentID string, chunks []domain.Chunk, embeddings [][]float32,
) ([]string, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is empty: %w", domain.ErrInvalidInput)
	}
	if len(chunks) == 0 {
		return []string{}, nil
	}
	if embeddings != nil && len(embeddings) != len(chunks) {
		return nil, fmt.Errorf(
			"got %d embeddings for %d chunks: %w",
			len(embeddings), len(chunks), domain.ErrInvalidInput,
		)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if embeddings == nil && s.vectorStore != nil {
		if s.embeddingService == nil {
			logger.Warn("No embedding service, indexing mapping only for %s", documentID)
		} else {
			texts := make([]string, len(chunks))
			for i, c := range chunks {
				texts[i] = c.Text
			}
			computed, err := s.embeddingService.EmbedBatch(ctx, texts)
			if err != nil {
				return nil, fmt.Errorf("embed chunks: %w", err)
			}
			embeddings = computed
		}
	}

	if s.vectorStore != nil && embeddings != nil {
		if err := s.validateDimensions(embeddings); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(chunks))
	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.New().String()
		}
		chunks[i].DocumentID = documentID
		if chunks[i].SequenceNumber == 0 {
			chunks[i].SequenceNumber = i + 1
		}
		ids[i] = chunks[i].ID
	}

	// Mapping rows go first. A crash between the halves leaves mapping
	// rows without vectors, which reads treat the same as a degraded
	// insert and Reconcile never has to undo.
	if err := s.chunkStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunk mapping: %w", err)
	}

	if s.vectorStore == nil || embeddings == nil {
		logger.Debug("Indexed %d chunks for %s (mapping only)", len(chunks), documentID)
		return ids, nil
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i := range chunks {
		entries[i] = driven.VectorEntry{ChunkID: ids[i], Embedding: embeddings[i]}
	}
	if err := s.vectorStore.Append(ctx, entries); err != nil {
		return nil, fmt.Errorf("append vectors: %w", err)
	}

	logger.Debug("Indexed %d chunks for %s", len(chunks), documentID)
	return ids, nil
}

// validateDimensions rejects embeddings that disagree with the vector
// store's established dimensionality, or with each other when the store
// is still empty.
func (s *IndexService) validateDimensions(embeddings [][]float32) error {
	want := s.vectorStore.Dimensions()
	if want == 0 {
		want = len(embeddings[0])
	}
	for i, e := range embeddings {
		if len(e) != want {
			return fmt.Errorf(
				"embedding %d has %d dimensions, index has %d: %w",
				i, len(e), want, domain.ErrDimensionMismatch,
			)
		}
	}
	return nil
}

// Search finds the k nearest chunks to the query vector, ascending by
// L2 distance, hydrated with document id and text from the mapping store.
func (s *IndexService) Search(ctx context.Context, query []float32, k int) ([]domain.ChunkMatch, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", k, domain.ErrInvalidInput)
	}
	if s.vectorStore == nil {
		logger.Debug("No vector store, search returns no results")
		return []domain.ChunkMatch{}, nil
	}

	hits, err := s.vectorStore.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	matches := make([]domain.ChunkMatch, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.chunkStore.GetChunk(ctx, hit.ChunkID)
		if errors.Is(err, domain.ErrNotFound) {
			// A vector without a mapping row means the stores are out
			// of step; skip the hit rather than return a dangling id.
			logger.Warn("Vector hit %s has no mapping row, skipping", hit.ChunkID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("hydrate chunk %s: %w", hit.ChunkID, err)
		}
		matches = append(matches, domain.ChunkMatch{
			ChunkID:    hit.ChunkID,
			DocumentID: chunk.DocumentID,
			Text:       chunk.Text,
			Distance:   hit.Distance,
		})
	}
	return matches, nil
}

// SearchText embeds the query text and searches.
func (s *IndexService) SearchText(ctx context.Context, query string, k int) ([]domain.ChunkMatch, error) {
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	vector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.Search(ctx, vector, k)
}

// Text returns the stored text of a chunk, or an empty string when the
// chunk is unknown.
func (s *IndexService) Text(ctx context.Context, chunkID string) (string, error) {
	return s.chunkStore.GetText(ctx, chunkID)
}

// Delete removes every index entry belonging to the document from both
// halves of the store. The vector half goes first so an interruption
// leaves mapping rows without vectors, never the reverse.
func (s *IndexService) Delete(ctx context.Context, documentID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	chunks, err := s.chunkStore.ListByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("list chunks for %s: %w", documentID, err)
	}
	if len(chunks) == 0 {
		return nil
	}

	if s.vectorStore != nil {
		ids := make([]string, len(chunks))
		for i, c := range chunks {
			ids[i] = c.ID
		}
		if err := s.vectorStore.Remove(ctx, ids); err != nil {
			return fmt.Errorf("remove vectors for %s: %w", documentID, err)
		}
	}

	if err := s.chunkStore.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete chunk mapping for %s: %w", documentID, err)
	}

	logger.Debug("Deleted %d chunks for %s", len(chunks), documentID)
	return nil
}

// Reconcile removes vector rows that have no mapping row. Run at
// startup; an interrupted insert or delete can leave the mapping half
// behind the vector half only if the vector file write itself crashed,
// in which case the atomic rewrite discarded it, so in practice this
// only trims vectors orphaned by an out-of-band mapping edit.
func (s *IndexService) Reconcile(ctx context.Context) (int, error) {
	if s.vectorStore == nil {
		return 0, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	known, err := s.chunkStore.ChunkIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list chunk ids: %w", err)
	}

	var orphans []string
	for _, id := range s.vectorStore.IDs() {
		if _, ok := known[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	if err := s.vectorStore.Remove(ctx, orphans); err != nil {
		return 0, fmt.Errorf("remove orphan vectors: %w", err)
	}
	logger.Info("Reconciled index: removed %d orphan vectors", len(orphans))
	return len(orphans), nil
}
