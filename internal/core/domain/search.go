package domain

// ChunkMatch represents a single nearest-neighbour search hit.
type ChunkMatch struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// DocumentID is the chunk's owning document.
	DocumentID string

	// Text is the stored chunk text (may be truncated to a snippet
	// by presentation layers, never by the index itself).
	Text string

	// Distance is the Euclidean (L2) distance to the query vector.
	// Smaller means more similar.
	Distance float64
}
