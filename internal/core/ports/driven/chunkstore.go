package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// ChunkStore persists the chunk mapping: chunk_id -> (document_id, text)
// plus positional metadata. It is one half of the logical index; the
// VectorStore holds the other half. Backed by SQLite.
type ChunkStore interface {
	// SaveChunks stores the given chunks. IDs must already be assigned.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound when unknown.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetText retrieves a chunk's text by ID.
	// Returns an empty string (and no error) when unknown.
	GetText(ctx context.Context, id string) (string, error)

	// ListByDocument returns all chunks for a document, ordered by
	// sequence number. Returns an empty slice for unknown documents.
	ListByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteByDocument removes every chunk belonging to the document.
	// Deleting an unknown document is a no-op, not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// ChunkIDs returns the full set of stored chunk ids.
	// Used for reconciliation against the vector store on startup.
	ChunkIDs(ctx context.Context) (map[string]struct{}, error)

	// Close releases resources.
	Close() error
}
