// Package tui provides an interactive terminal user interface for quarry.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index provides chunk search capabilities.
	Index driving.IndexService

	// Status reports the system's capability level.
	Status driving.StatusService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(index driving.IndexService, status driving.StatusService) *Ports {
	return &Ports{
		Index:  index,
		Status: status,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingIndexService
	}
	if p.Status == nil {
		return ErrMissingStatusService
	}
	return nil
}
