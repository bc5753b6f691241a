package domain

// Mode describes the overall capability level of the running system.
type Mode string

// Available modes.
const (
	// ModeFull means every optional backend is present and healthy.
	ModeFull Mode = "full"

	// ModeDegraded means at least one optional backend is absent or
	// has failed over; ordinary requests still succeed.
	ModeDegraded Mode = "degraded"
)

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// EmbeddingCapability describes the state of the embedding backend.
type EmbeddingCapability struct {
	// Provider is the configured provider name.
	Provider string

	// Model is the embedding model in use.
	Model string

	// Dimensions is the vector size produced.
	Dimensions int

	// Available is true when the primary backend answered the last ping.
	Available bool

	// Degraded is true when the deterministic fallback has served
	// at least one request.
	Degraded bool
}

// CapabilityReport describes, on demand, whether the system is running
// in full or degraded capability. Producing it never fails a request.
type CapabilityReport struct {
	// Mode is the overall capability level.
	Mode Mode

	// Embedding describes the embedding backend.
	Embedding EmbeddingCapability

	// VectorSearch is true when nearest-neighbour search is available.
	VectorSearch bool

	// MappingStore is true when the chunk mapping store is open.
	MappingStore bool

	// TextSource is true when the document text source is reachable.
	TextSource bool

	// IndexedChunks is the number of vectors currently searchable.
	IndexedChunks int
}
