package driven

import (
	"context"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// ChangeOp classifies a text source change event.
type ChangeOp string

// Change operations.
const (
	// ChangeUpdated means a document appeared or its content changed.
	ChangeUpdated ChangeOp = "updated"

	// ChangeRemoved means a document was deleted.
	ChangeRemoved ChangeOp = "removed"
)

// TextChange is a change event emitted by a watching text source.
type TextChange struct {
	// DocumentID identifies the changed document.
	DocumentID string

	// Op is the kind of change.
	Op ChangeOp
}

// TextSource supplies already-extracted document text. PDF parsing, OCR
// and outline detection happen upstream; this boundary only sees their
// artifacts.
type TextSource interface {
	// List returns the ids of all available documents.
	List(ctx context.Context) ([]string, error)

	// Pages returns the page records of a document in page order.
	// Returns domain.ErrNotFound for unknown documents.
	Pages(ctx context.Context, documentID string) ([]domain.PageText, error)

	// Watch emits change events until ctx is cancelled.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan TextChange, error)

	// Close releases resources.
	Close() error
}
