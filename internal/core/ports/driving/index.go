package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// IndexService provides durable chunk storage and nearest-neighbour
// retrieval to external actors.
//
// Insertions follow a single-writer discipline: at most one Index or
// Delete is in flight at a time. Searches and text lookups may run
// concurrently with each other and with a writer, though a reader may
// observe the index without a write still in flight.
type IndexService interface {
	// Index stores chunks for a document and returns the assigned
	// chunk ids in input order. When embeddings is nil they are
	// computed via the embedding service; when supplied, embeddings
	// must match chunks in length and order.
	//
	// Returns domain.ErrDimensionMismatch when an embedding disagrees
	// with the index's established dimensionality.
	Index(ctx context.Context, documentID string, chunks []domain.Chunk, embeddings [][]float32) ([]string, error)

	// Search finds the k nearest chunks to the query vector, ascending
	// by L2 distance. Returns domain.ErrInvalidInput for k <= 0 and an
	// empty result for an empty or unavailable index.
	Search(ctx context.Context, query []float32, k int) ([]domain.ChunkMatch, error)

	// SearchText embeds the query text and searches.
	SearchText(ctx context.Context, query string, k int) ([]domain.ChunkMatch, error)

	// Text returns the stored text of a chunk, or an empty string
	// when the chunk is unknown. Never returns domain.ErrNotFound.
	Text(ctx context.Context, chunkID string) (string, error)

	// Delete removes every index entry belonging to the document from
	// both halves of the store. Unknown documents are a no-op.
	Delete(ctx context.Context, documentID string) error
}
