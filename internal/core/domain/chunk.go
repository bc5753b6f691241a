package domain

// Chunk represents a bounded, retrievable unit of document text.
// Chunks are immutable once created; the vector index and the ranker
// reference them by ID, never copy-on-write.
type Chunk struct {
	// ID is the unique identifier, assigned at insertion and never reused.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// Text is the chunk content. Always non-empty after trimming;
	// chunks below the minimum substantiveness threshold are never created.
	Text string

	// SequenceNumber is the 1-based emission order within the document.
	SequenceNumber int

	// SectionTitle is the nearest preceding section heading, when known.
	SectionTitle string

	// PageNumber is the source page, when known (0 otherwise).
	PageNumber int

	// Embedding is the vector representation for similarity search.
	// Populated by the index at insertion time; nil before then.
	Embedding []float32
}

// PageText is an extracted page record supplied by a text source.
// It is the input shape of the title-aware chunking variant.
type PageText struct {
	// DocumentID identifies the source document.
	DocumentID string

	// PageNumber is the 1-based page within the document.
	PageNumber int

	// SectionTitle is the nearest section heading at or before this page.
	// May be empty; the chunker substitutes UntitledSection.
	SectionTitle string

	// Text is the raw extracted page text.
	Text string
}

// UntitledSection is the placeholder title for chunks with no
// preceding section heading.
const UntitledSection = "Untitled Section"
