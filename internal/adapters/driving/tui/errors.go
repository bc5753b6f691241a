package tui

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("tui: index service is required")

// ErrMissingStatusService is returned when the status service is not provided.
var ErrMissingStatusService = errors.New("tui: status service is required")
