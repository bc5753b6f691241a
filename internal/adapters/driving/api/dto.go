package api

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var validate = validator.New()

// validateStruct renders validator failures as a field -> reason map.
func validateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": err.Error()}
	}
	failures := make(map[string]string)
	for _, e := range errs {
		failures[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return failures
}

// --- Requests ---

type personaPayload struct {
	Role       string   `json:"role" validate:"required"`
	Experience string   `json:"experience,omitempty"`
	Background string   `json:"background,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

type jobPayload struct {
	Task     string `json:"task,omitempty"`
	Goal     string `json:"goal,omitempty"`
	Timeline string `json:"timeline,omitempty"`
}

type analyzeParams struct {
	DocumentIDs     []string       `json:"document_ids" validate:"required,min=1"`
	Persona         personaPayload `json:"persona" validate:"required"`
	Task            jobPayload     `json:"task"`
	TaskDescription string         `json:"task_description" validate:"required"`
	MaxChunkSize    int            `json:"max_chunk_size,omitempty" validate:"omitempty,min=1"`
}

func (p *analyzeParams) toRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		DocumentIDs: p.DocumentIDs,
		Persona: domain.Persona{
			Role:       p.Persona.Role,
			Experience: p.Persona.Experience,
			Background: p.Persona.Background,
			FocusAreas: p.Persona.FocusAreas,
		},
		Job: domain.Job{
			Task:     p.Task.Task,
			Goal:     p.Task.Goal,
			Timeline: p.Task.Timeline,
		},
		TaskDescription: p.TaskDescription,
		MaxChunkSize:    p.MaxChunkSize,
	}
}

type chunkParams struct {
	MaxChunkSize int `json:"max_chunk_size,omitempty" validate:"omitempty,min=1"`
}

type searchParams struct {
	Query string `json:"query" validate:"required"`
	K     int    `json:"k,omitempty" validate:"omitempty,min=1"`
}

// --- Responses ---

type extractedSectionPayload struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	RelevanceScore float64 `json:"relevance_score"`
}

type subsectionPayload struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

type failurePayload struct {
	DocumentID string `json:"document_id"`
	Reason     string `json:"reason"`
}

type analyzeResponse struct {
	Metadata           analyzeMetadata           `json:"metadata"`
	ExtractedSections  []extractedSectionPayload `json:"extracted_sections"`
	SubsectionAnalysis []subsectionPayload       `json:"subsection_analysis"`
	Failed             []failurePayload          `json:"failed_documents,omitempty"`
	PersonaIndexID     string                    `json:"persona_index_id,omitempty"`
}

type analyzeMetadata struct {
	InputDocuments      []string  `json:"input_documents"`
	Persona             string    `json:"persona"`
	JobToBeDone         string    `json:"job_to_be_done"`
	ProcessingTimestamp time.Time `json:"processing_timestamp"`
}

func newAnalyzeResponse(digest *domain.Digest) analyzeResponse {
	resp := analyzeResponse{
		Metadata: analyzeMetadata{
			InputDocuments:      digest.InputDocuments,
			Persona:             digest.Persona,
			JobToBeDone:         digest.JobToBeDone,
			ProcessingTimestamp: digest.ProcessingTimestamp,
		},
		ExtractedSections:  make([]extractedSectionPayload, 0, len(digest.ExtractedSections)),
		SubsectionAnalysis: make([]subsectionPayload, 0, len(digest.SubsectionAnalysis)),
		PersonaIndexID:     digest.PersonaIndexID,
	}
	for _, section := range digest.ExtractedSections {
		resp.ExtractedSections = append(resp.ExtractedSections, extractedSectionPayload{
			Document:       section.Document,
			SectionTitle:   section.SectionTitle,
			ImportanceRank: section.ImportanceRank,
			PageNumber:     section.PageNumber,
			RelevanceScore: section.RelevanceScore,
		})
	}
	for _, sub := range digest.SubsectionAnalysis {
		resp.SubsectionAnalysis = append(resp.SubsectionAnalysis, subsectionPayload{
			Document:    sub.Document,
			RefinedText: sub.RefinedText,
			PageNumber:  sub.PageNumber,
		})
	}
	for _, failure := range digest.Failed {
		resp.Failed = append(resp.Failed, failurePayload{
			DocumentID: failure.DocumentID,
			Reason:     failure.Reason,
		})
	}
	return resp
}

type chunkResponse struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

type searchHitPayload struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Distance   float64 `json:"distance"`
}

type searchResponse struct {
	Query   string             `json:"query"`
	Results []searchHitPayload `json:"results"`
}

type statusResponse struct {
	Mode      string          `json:"mode"`
	Embedding embeddingStatus `json:"embedding"`

	VectorSearch  bool `json:"vector_search"`
	MappingStore  bool `json:"mapping_store"`
	TextSource    bool `json:"text_source"`
	IndexedChunks int  `json:"indexed_chunks"`
}

type embeddingStatus struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
	Available  bool   `json:"available"`
	Degraded   bool   `json:"degraded"`
}

func newStatusResponse(report domain.CapabilityReport) statusResponse {
	return statusResponse{
		Mode: report.Mode.String(),
		Embedding: embeddingStatus{
			Provider:   report.Embedding.Provider,
			Model:      report.Embedding.Model,
			Dimensions: report.Embedding.Dimensions,
			Available:  report.Embedding.Available,
			Degraded:   report.Embedding.Degraded,
		},
		VectorSearch:  report.VectorSearch,
		MappingStore:  report.MappingStore,
		TextSource:    report.TextSource,
		IndexedChunks: report.IndexedChunks,
	}
}
