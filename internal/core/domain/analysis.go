package domain

import "time"

// Persona describes the capabilities and background of the requester.
// It is scoring input only, ephemeral and request-scoped; the core
// never persists it as a first-class entity.
type Persona struct {
	// Role is the requester's role label (e.g. "Data Scientist").
	Role string

	// Experience is the requester's experience level (optional).
	Experience string

	// Background is the requester's professional background (optional).
	Background string

	// FocusAreas are topics the requester cares about (optional).
	FocusAreas []string
}

// Job describes the requester's goal.
type Job struct {
	// Task is what the requester wants to accomplish.
	Task string

	// Goal is the longer-term objective (optional).
	Goal string

	// Timeline is the time frame for the task (optional).
	Timeline string
}

// AnalysisRequest carries the inputs of a persona-relevance ranking run.
type AnalysisRequest struct {
	// DocumentIDs are the documents forming the candidate pool.
	DocumentIDs []string

	// Persona describes the requester.
	Persona Persona

	// Job describes the requester's goal.
	Job Job

	// TaskDescription is free-form text describing the information need.
	// Required; an empty description is rejected.
	TaskDescription string

	// MaxChunkSize is the soft chunk size bound in characters.
	// Zero selects the default.
	MaxChunkSize int
}

// ExtractedSection is one top-ranked section of a Digest.
type ExtractedSection struct {
	// ChunkID references the underlying chunk.
	ChunkID string

	// Document is the owning document id.
	Document string

	// SectionTitle is the chunk's section heading.
	SectionTitle string

	// ImportanceRank is the 1-based rank by descending relevance.
	ImportanceRank int

	// PageNumber is the source page.
	PageNumber int

	// RelevanceScore is the cosine similarity to the relevance query.
	RelevanceScore float64
}

// SubsectionAnalysis carries the refined text for one selected section.
type SubsectionAnalysis struct {
	// Document is the owning document id.
	Document string

	// RefinedText is the chunk text, length-capped at a sentence or
	// word boundary to bound downstream payload size.
	RefinedText string

	// PageNumber is the source page.
	PageNumber int
}

// DocumentFailure records a per-document extraction failure.
// Failures are surfaced alongside partial results, never silently
// dropped and never allowed to abort sibling documents.
type DocumentFailure struct {
	// DocumentID identifies the failed document.
	DocumentID string

	// Reason is a human-readable failure description.
	Reason string
}

// Digest is the ranked output of a persona analysis. It is derived,
// read-only data produced fresh per request.
type Digest struct {
	// InputDocuments are the document ids that contributed to the pool.
	InputDocuments []string

	// Persona is the requester's role label.
	Persona string

	// JobToBeDone is the requester's task, optionally extended
	// with the goal.
	JobToBeDone string

	// ProcessingTimestamp is when the analysis ran.
	ProcessingTimestamp time.Time

	// ExtractedSections are the top-ranked sections, ordered by
	// ImportanceRank ascending.
	ExtractedSections []ExtractedSection

	// SubsectionAnalysis holds refined text per extracted section,
	// in the same order.
	SubsectionAnalysis []SubsectionAnalysis

	// Failed records documents whose extraction failed.
	Failed []DocumentFailure

	// PersonaIndexID is the derived persona-scoped document id the
	// refined sections were indexed under, when indexing succeeded.
	PersonaIndexID string

	// ChunkIDs are the ids assigned to the refined sections in the
	// persona-scoped index.
	ChunkIDs []string
}
