package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// IngestResult summarises one ingest run.
type IngestResult struct {
	// Processed maps document id to the number of chunks indexed.
	Processed map[string]int

	// Failed records documents that could not be ingested.
	Failed []domain.DocumentFailure
}

// IngestService chunks and indexes documents from the text source.
type IngestService interface {
	// Ingest processes the given documents. A failing document is
	// recorded in the result and does not abort the others.
	Ingest(ctx context.Context, documentIDs []string, maxChunkSize int) (*IngestResult, error)

	// IngestAll processes every document the text source lists.
	IngestAll(ctx context.Context, maxChunkSize int) (*IngestResult, error)
}
