package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/quarry-labs/quarry-cli/internal/chunker"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure RankingService implements the interface.
var _ driving.RankingService = (*RankingService)(nil)

// scoredSection holds one candidate chunk with its relevance score
// before selection.
type scoredSection struct {
	chunk domain.Chunk
	score float64
}

// RankingService ranks document chunks against a persona and task.
type RankingService struct {
	textSource       driven.TextSource
	embeddingService driven.EmbeddingService
	indexService     driving.IndexService
	chunker          *chunker.Chunker
	maxChunkSize     int
	topSections      int
	refinedTextLimit int
}

// NewRankingService creates a new ranking service.
// The indexService parameter is optional (can be nil); without it the
// refined sections are returned but not indexed. The chunking settings
// supply the substantiveness threshold and the default chunk size used
// when a request does not override it.
func NewRankingService(
	textSource driven.TextSource,
	embeddingService driven.EmbeddingService,
	indexService driving.IndexService,
	settings domain.RankingSettings,
	chunking domain.ChunkingSettings,
) *RankingService {
	if settings.TopSections <= 0 {
		settings.TopSections = domain.DefaultTopSections
	}
	if settings.RefinedTextLimit <= 0 {
		settings.RefinedTextLimit = domain.DefaultRefinedTextLimit
	}
	if chunking.MaxChunkSize <= 0 {
		chunking.MaxChunkSize = domain.DefaultMaxChunkSize
	}
	if chunking.MinChunkLength <= 0 {
		chunking.MinChunkLength = domain.DefaultMinChunkLength
	}
	return &RankingService{
		textSource:       textSource,
		embeddingService: embeddingService,
		indexService:     indexService,
		chunker:          chunker.New(chunker.WithMinLength(chunking.MinChunkLength)),
		maxChunkSize:     chunking.MaxChunkSize,
		topSections:      settings.TopSections,
		refinedTextLimit: settings.RefinedTextLimit,
	}
}

// Analyze chunks the requested documents, ranks the pool against the
// persona and task, and returns the top sections with refined text.
func (s *RankingService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Digest, error) {
	logger.Section("Persona Analysis")

	if strings.TrimSpace(req.TaskDescription) == "" {
		return nil, fmt.Errorf("task description is empty: %w", domain.ErrInvalidInput)
	}
	if len(req.DocumentIDs) == 0 {
		return nil, fmt.Errorf("no documents given: %w", domain.ErrInvalidInput)
	}
	if s.textSource == nil {
		return nil, domain.ErrTextSourceUnavailable
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	maxChunkSize := req.MaxChunkSize
	if maxChunkSize <= 0 {
		maxChunkSize = s.maxChunkSize
	}

	digest := &domain.Digest{
		InputDocuments:      req.DocumentIDs,
		Persona:             req.Persona.Role,
		JobToBeDone:         jobLabel(req.Job, req.TaskDescription),
		ProcessingTimestamp: time.Now().UTC(),
		ExtractedSections:   []domain.ExtractedSection{},
		SubsectionAnalysis:  []domain.SubsectionAnalysis{},
	}

	// Build the candidate pool. A document that fails extraction is
	// recorded and skipped; its siblings still contribute.
	var pool []domain.Chunk
	for _, docID := range req.DocumentIDs {
		pages, err := s.textSource.Pages(ctx, docID)
		if err != nil {
			logger.Warn("Extraction failed for %s: %v", docID, err)
			digest.Failed = append(digest.Failed, domain.DocumentFailure{
				DocumentID: docID,
				Reason:     err.Error(),
			})
			continue
		}
		pool = append(pool, s.chunker.SplitPages(pages, maxChunkSize)...)
	}
	logger.Debug("Candidate pool: %d chunks from %d documents", len(pool), len(req.DocumentIDs))

	if len(pool) == 0 {
		return digest, nil
	}

	query := ComposeQuery(req.Persona, req.Job, req.TaskDescription)
	queryVector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed relevance query: %w", err)
	}

	texts := make([]string, len(pool))
	for i, c := range pool {
		texts[i] = c.Text
	}
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed candidate pool: %w", err)
	}

	scored := make([]scoredSection, len(pool))
	for i, c := range pool {
		scored[i] = scoredSection{chunk: c, score: cosineSimilarity(queryVector, vectors[i])}
	}

	// Descending score; score ties resolve by sequence number then
	// document id so repeated runs produce identical digests.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].chunk.SequenceNumber != scored[j].chunk.SequenceNumber {
			return scored[i].chunk.SequenceNumber < scored[j].chunk.SequenceNumber
		}
		return scored[i].chunk.DocumentID < scored[j].chunk.DocumentID
	})

	top := scored
	if len(top) > s.topSections {
		top = top[:s.topSections]
	}

	refined := make([]domain.Chunk, 0, len(top))
	for rank, sec := range top {
		text := refineText(sec.chunk.Text, s.refinedTextLimit)
		digest.ExtractedSections = append(digest.ExtractedSections, domain.ExtractedSection{
			ChunkID:        sec.chunk.ID,
			Document:       sec.chunk.DocumentID,
			SectionTitle:   sec.chunk.SectionTitle,
			ImportanceRank: rank + 1,
			PageNumber:     sec.chunk.PageNumber,
			RelevanceScore: sec.score,
		})
		digest.SubsectionAnalysis = append(digest.SubsectionAnalysis, domain.SubsectionAnalysis{
			Document:    sec.chunk.DocumentID,
			RefinedText: text,
			PageNumber:  sec.chunk.PageNumber,
		})
		refined = append(refined, domain.Chunk{
			Text:           text,
			SequenceNumber: rank + 1,
			SectionTitle:   sec.chunk.SectionTitle,
			PageNumber:     sec.chunk.PageNumber,
		})
	}

	s.indexDigest(ctx, query, refined, digest)

	logger.Info("Selected %d of %d candidate sections", len(top), len(scored))
	return digest, nil
}

// indexDigest stores the refined sections under a persona-scoped
// document id. Indexing failures degrade the digest (no persona index
// id) but never fail the analysis.
func (s *RankingService) indexDigest(
	ctx context.Context, query string, refined []domain.Chunk, digest *domain.Digest,
) {
	if s.indexService == nil || len(refined) == 0 {
		return
	}

	personaID := PersonaIndexID(query)

	// The id is content-addressed from the query, so re-running the
	// same analysis replaces the previous entries instead of stacking.
	if err := s.indexService.Delete(ctx, personaID); err != nil {
		logger.Warn("Could not clear persona index %s: %v", personaID, err)
		return
	}
	ids, err := s.indexService.Index(ctx, personaID, refined, nil)
	if err != nil {
		logger.Warn("Could not index digest under %s: %v", personaID, err)
		return
	}

	digest.PersonaIndexID = personaID
	digest.ChunkIDs = ids
}

// ComposeQuery builds the relevance query text from the persona, the
// job and the task description. The composition is deterministic: the
// same inputs always produce the same query, which in turn fixes the
// persona index id.
func ComposeQuery(persona domain.Persona, job domain.Job, taskDescription string) string {
	parts := make([]string, 0, 8)
	appendPart := func(p string) {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	appendPart(persona.Role)
	appendPart(persona.Experience)
	appendPart(persona.Background)
	appendPart(strings.Join(persona.FocusAreas, ", "))
	appendPart(job.Task)
	appendPart(job.Goal)
	appendPart(job.Timeline)
	appendPart(taskDescription)
	return strings.Join(parts, ". ")
}

// PersonaIndexID derives the persona-scoped document id from the
// relevance query text.
func PersonaIndexID(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "persona-" + hex.EncodeToString(sum[:])[:16]
}

// jobLabel renders the job-to-be-done line of a digest.
func jobLabel(job domain.Job, taskDescription string) string {
	task := strings.TrimSpace(job.Task)
	if task == "" {
		task = strings.TrimSpace(taskDescription)
	}
	if goal := strings.TrimSpace(job.Goal); goal != "" {
		return task + " - " + goal
	}
	return task
}

// refineText caps text at limit characters, preferring a sentence
// boundary, then a word boundary, over a hard cut. A sentence boundary
// is only used when it keeps at least 60% of the cap, so a single long
// sentence does not collapse the text to a fragment.
func refineText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	if idx := lastSentenceEnd(cut); idx >= limit*6/10 {
		return strings.TrimSpace(cut[:idx+1])
	}
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		return strings.TrimSpace(cut[:idx])
	}
	return cut
}

// lastSentenceEnd returns the index of the last sentence terminator in
// s, or -1.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
