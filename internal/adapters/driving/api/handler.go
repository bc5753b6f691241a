package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Handler serves the HTTP API by driving the core services.
type Handler struct {
	indexService   driving.IndexService
	rankingService driving.RankingService
	ingestService  driving.IngestService
	statusService  driving.StatusService
}

// NewHandler creates an API handler over the given services.
func NewHandler(
	indexService driving.IndexService,
	rankingService driving.RankingService,
	ingestService driving.IngestService,
	statusService driving.StatusService,
) *Handler {
	return &Handler{
		indexService:   indexService,
		rankingService: rankingService,
		ingestService:  ingestService,
		statusService:  statusService,
	}
}

// HandleHealth answers liveness probes.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus reports the capability level.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	report := h.statusService.Report(c.Context())
	return c.JSON(newStatusResponse(report))
}

// HandleChunkDocument chunks and indexes one document from the source.
func (h *Handler) HandleChunkDocument(c *fiber.Ctx) error {
	documentID := c.Params("id")

	var params chunkParams
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&params); err != nil {
			return ErrBadRequest()
		}
	}
	if failures := validateStruct(&params); len(failures) > 0 {
		return NewValidationError(failures)
	}

	result, err := h.ingestService.Ingest(c.Context(), []string{documentID}, params.MaxChunkSize)
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return NewError(fiber.StatusNotFound, result.Failed[0].Reason)
	}

	return c.JSON(chunkResponse{
		DocumentID: documentID,
		Chunks:     result.Processed[documentID],
	})
}

// HandleAnalyze runs a persona relevance analysis.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	var params analyzeParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if failures := validateStruct(&params); len(failures) > 0 {
		return NewValidationError(failures)
	}

	digest, err := h.rankingService.Analyze(c.Context(), params.toRequest())
	if err != nil {
		return err
	}
	return c.JSON(newAnalyzeResponse(digest))
}

// HandleSearch embeds a query and returns the nearest chunks.
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	var params searchParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if failures := validateStruct(&params); len(failures) > 0 {
		return NewValidationError(failures)
	}
	if params.K == 0 {
		params.K = 10
	}

	matches, err := h.indexService.SearchText(c.Context(), params.Query, params.K)
	if err != nil {
		return err
	}

	results := make([]searchHitPayload, 0, len(matches))
	for _, m := range matches {
		results = append(results, searchHitPayload{
			ChunkID:    m.ChunkID,
			DocumentID: m.DocumentID,
			Text:       m.Text,
			Distance:   m.Distance,
		})
	}
	return c.JSON(searchResponse{Query: params.Query, Results: results})
}
