package driven

import "context"

// VectorEntry pairs a chunk id with its embedding for insertion.
type VectorEntry struct {
	// ChunkID is the chunk this embedding represents.
	ChunkID string

	// Embedding is the fixed-length vector. Never mutated after insertion.
	Embedding []float32
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Distance is the Euclidean (L2) distance. Smaller is more similar.
	Distance float64
}

// VectorStore holds the dense half of the index: embeddings in insertion
// order with a parallel chunk-id list for row lookup. Dimensionality is
// fixed by the first successful append and immutable thereafter.
//
// The store must persist durably before Append/Remove return, and a
// reload after process restart must reproduce identical search results.
type VectorStore interface {
	// Append inserts entries at the end of the store and persists.
	// Returns domain.ErrDimensionMismatch when an embedding disagrees
	// with the established dimensionality; the store is left unmodified.
	Append(ctx context.Context, entries []VectorEntry) error

	// Remove deletes the rows for the given chunk ids and persists.
	// Unknown ids are ignored.
	Remove(ctx context.Context, chunkIDs []string) error

	// Search finds the k nearest neighbours by L2 distance, ascending.
	// Returns fewer than k hits when the store is smaller, and no hits
	// for an empty store.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Dimensions returns the established dimensionality, 0 before the
	// first append.
	Dimensions() int

	// Len returns the number of stored vectors.
	Len() int

	// IDs returns the stored chunk ids in insertion order.
	IDs() []string

	// Close releases resources.
	Close() error
}
