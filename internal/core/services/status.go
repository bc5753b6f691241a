package services

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// degradationReporter is implemented by embedders that can fail over
// to a fallback, such as the fallback embedding adapter.
type degradationReporter interface {
	Degraded() bool
}

// StatusService reports the system's capability level.
type StatusService struct {
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
	chunkStore       driven.ChunkStore
	textSource       driven.TextSource
	provider         domain.EmbeddingProvider
}

// NewStatusService creates a new status service. Every dependency is
// optional; absent backends are reported as unavailable.
func NewStatusService(
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
	chunkStore driven.ChunkStore,
	textSource driven.TextSource,
	provider domain.EmbeddingProvider,
) *StatusService {
	return &StatusService{
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
		chunkStore:       chunkStore,
		textSource:       textSource,
		provider:         provider,
	}
}

// Report describes whether the system runs in full or degraded
// capability. It never fails; unreachable backends are reported as
// unavailable rather than surfaced as errors.
func (s *StatusService) Report(ctx context.Context) domain.CapabilityReport {
	report := domain.CapabilityReport{
		VectorSearch: s.vectorStore != nil,
		MappingStore: s.chunkStore != nil,
	}

	if s.embeddingService != nil {
		report.Embedding.Provider = s.provider.String()
		report.Embedding.Model = s.embeddingService.ModelName()
		report.Embedding.Dimensions = s.embeddingService.Dimensions()
		report.Embedding.Available = s.embeddingService.Ping(ctx) == nil

		// The fallback adapter answers every ping; ask it whether the
		// primary has actually failed over.
		if reporter, ok := s.embeddingService.(degradationReporter); ok {
			report.Embedding.Degraded = reporter.Degraded()
			if report.Embedding.Degraded {
				report.Embedding.Available = false
			}
		}
	}

	if s.textSource != nil {
		if _, err := s.textSource.List(ctx); err != nil {
			logger.Debug("Text source unreachable: %v", err)
		} else {
			report.TextSource = true
		}
	}

	if s.vectorStore != nil {
		report.IndexedChunks = s.vectorStore.Len()
	}

	report.Mode = domain.ModeFull
	if !report.Embedding.Available || report.Embedding.Degraded ||
		!report.VectorSearch || !report.MappingStore || !report.TextSource {
		report.Mode = domain.ModeDegraded
	}
	return report
}
