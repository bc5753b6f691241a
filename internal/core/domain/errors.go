package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates an embedding's dimensionality disagrees
	// with the dimensionality established by the index's first insertion.
	// The insertion is rejected and the index left unmodified.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Callers fall back to the deterministic hashing embedder.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	// Insertions still persist mapping rows; searches return no results.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrTextSourceUnavailable indicates the document text source is not configured.
	ErrTextSourceUnavailable = errors.New("text source unavailable")

	// ErrIndexClosed indicates the vector store has been closed.
	ErrIndexClosed = errors.New("vector index closed")
)
