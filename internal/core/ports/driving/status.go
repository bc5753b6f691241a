package driving

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// StatusService reports the system's capability level on demand.
type StatusService interface {
	// Report describes whether the system runs in full or degraded
	// capability. It never fails; unreachable backends are reported
	// as unavailable rather than surfaced as errors.
	Report(ctx context.Context) domain.CapabilityReport
}
