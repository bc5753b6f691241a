package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// RankingService scores document chunks against a persona and task
// description and selects the most relevant sections.
type RankingService interface {
	// Analyze chunks the requested documents, ranks the pool against
	// the persona and task, and returns the top sections with refined
	// text. Per-document extraction failures are recorded in the
	// digest and do not abort sibling documents; an empty candidate
	// pool yields an empty digest, not an error.
	//
	// Returns domain.ErrInvalidInput when the task description is
	// empty or no documents are given.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.Digest, error)
}
