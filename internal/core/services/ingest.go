package services

import (
	"context"
	"fmt"

	"github.com/quarry-labs/quarry-cli/internal/chunker"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks documents from the text source and feeds them
// into the index.
type IngestService struct {
	textSource   driven.TextSource
	indexService driving.IndexService
	chunker      *chunker.Chunker
	maxChunkSize int
}

// NewIngestService creates a new ingest service. The chunking settings
// supply the substantiveness threshold and the default chunk size used
// when a call does not override it.
func NewIngestService(
	textSource driven.TextSource,
	indexService driving.IndexService,
	settings domain.ChunkingSettings,
) *IngestService {
	if settings.MaxChunkSize <= 0 {
		settings.MaxChunkSize = domain.DefaultMaxChunkSize
	}
	if settings.MinChunkLength <= 0 {
		settings.MinChunkLength = domain.DefaultMinChunkLength
	}
	return &IngestService{
		textSource:   textSource,
		indexService: indexService,
		chunker:      chunker.New(chunker.WithMinLength(settings.MinChunkLength)),
		maxChunkSize: settings.MaxChunkSize,
	}
}

// Ingest processes the given documents. Re-ingesting a document
// replaces its previous index entries. A failing document is recorded
// in the result and does not abort the others.
func (s *IngestService) Ingest(
	ctx context.Context, documentIDs []string, maxChunkSize int,
) (*driving.IngestResult, error) {
	logger.Section("Document Ingest")

	if s.textSource == nil {
		return nil, domain.ErrTextSourceUnavailable
	}
	if maxChunkSize <= 0 {
		maxChunkSize = s.maxChunkSize
	}

	result := &driving.IngestResult{Processed: make(map[string]int)}
	for _, docID := range documentIDs {
		count, err := s.ingestOne(ctx, docID, maxChunkSize)
		if err != nil {
			logger.Warn("Ingest failed for %s: %v", docID, err)
			result.Failed = append(result.Failed, domain.DocumentFailure{
				DocumentID: docID,
				Reason:     err.Error(),
			})
			continue
		}
		result.Processed[docID] = count
	}

	logger.Info("Ingested %d documents, %d failed", len(result.Processed), len(result.Failed))
	return result, nil
}

// IngestAll processes every document the text source lists.
func (s *IngestService) IngestAll(ctx context.Context, maxChunkSize int) (*driving.IngestResult, error) {
	if s.textSource == nil {
		return nil, domain.ErrTextSourceUnavailable
	}
	ids, err := s.textSource.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.Ingest(ctx, ids, maxChunkSize)
}

func (s *IngestService) ingestOne(ctx context.Context, docID string, maxChunkSize int) (int, error) {
	pages, err := s.textSource.Pages(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("extract text: %w", err)
	}

	chunks := s.chunker.SplitPages(pages, maxChunkSize)

	// Drop stale entries first so a re-ingest never leaves a mix of
	// old and new chunks under the same document.
	if err := s.indexService.Delete(ctx, docID); err != nil {
		return 0, fmt.Errorf("clear previous entries: %w", err)
	}
	if len(chunks) == 0 {
		logger.Debug("Document %s produced no substantive chunks", docID)
		return 0, nil
	}

	if _, err := s.indexService.Index(ctx, docID, chunks, nil); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}
