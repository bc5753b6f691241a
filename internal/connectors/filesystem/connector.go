// Package filesystem implements a TextSource over a local directory of
// extracted text artifacts. Each document is a single file: <doc>.txt
// holds raw text and becomes one synthetic page record, <doc>.json
// holds explicit page records. PDF parsing and OCR happen upstream;
// this connector only reads their output.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.TextSource = (*Source)(nil)

// Source reads document text artifacts from a directory.
type Source struct {
	rootPath string
	watcher  *fsnotify.Watcher
}

// New creates a filesystem text source rooted at rootPath.
func New(rootPath string) *Source {
	return &Source{rootPath: rootPath}
}

// List returns the ids of all available documents, sorted. A document
// id is the artifact's file name including extension.
func (s *Source) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isArtifact(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Pages returns the page records of a document in page order.
func (s *Source) Pages(_ context.Context, documentID string) ([]domain.PageText, error) {
	// Document ids are bare file names; anything path-like is refused
	// rather than resolved outside the root.
	if documentID != filepath.Base(documentID) || !isArtifact(documentID) {
		return nil, fmt.Errorf("document id %q: %w", documentID, domain.ErrNotFound)
	}

	data, err := os.ReadFile(filepath.Join(s.rootPath, documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %q: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read document %q: %w", documentID, err)
	}

	if strings.EqualFold(filepath.Ext(documentID), ".json") {
		return parsePages(documentID, data)
	}

	// Raw text becomes one synthetic page.
	return []domain.PageText{{
		DocumentID: documentID,
		PageNumber: 1,
		Text:       string(data),
	}}, nil
}

// Watch emits change events for document artifacts until ctx is
// cancelled. The returned channel is closed when watching stops.
func (s *Source) Watch(ctx context.Context) (<-chan driven.TextChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.rootPath, err)
	}
	s.watcher = watcher

	changes := make(chan driven.TextChange)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, relevant := classify(event)
				if !relevant {
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()
	return changes, nil
}

// Close releases the watcher if one is active.
func (s *Source) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// classify maps a filesystem event to a text change. Chmod and events
// on non-artifact files are not relevant.
func classify(event fsnotify.Event) (driven.TextChange, bool) {
	name := filepath.Base(event.Name)
	if !isArtifact(name) {
		return driven.TextChange{}, false
	}

	change := driven.TextChange{DocumentID: name}
	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		change.Op = driven.ChangeUpdated
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		change.Op = driven.ChangeRemoved
	default:
		return driven.TextChange{}, false
	}
	return change, true
}

// isArtifact reports whether a file name looks like a text artifact.
func isArtifact(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".json":
		return true
	default:
		return false
	}
}

// pageRecord is the explicit page shape of a .json artifact.
type pageRecord struct {
	PageNumber   int    `json:"page_number"`
	SectionTitle string `json:"section_title"`
	Text         string `json:"text"`
}

// digestArtifact is the alternative .json shape: a previously produced
// analysis digest whose refined sections are re-readable as pages.
type digestArtifact struct {
	ExtractedSections []struct {
		SectionTitle string `json:"section_title"`
		PageNumber   int    `json:"page_number"`
	} `json:"extracted_sections"`
	SubsectionAnalysis []struct {
		RefinedText string `json:"refined_text"`
		PageNumber  int    `json:"page_number"`
	} `json:"subsection_analysis"`
}

// parsePages decodes a .json artifact in either supported shape.
func parsePages(documentID string, data []byte) ([]domain.PageText, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []pageRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse page records of %q: %w", documentID, err)
		}
		pages := make([]domain.PageText, len(records))
		for i, r := range records {
			pageNumber := r.PageNumber
			if pageNumber == 0 {
				pageNumber = i + 1
			}
			pages[i] = domain.PageText{
				DocumentID:   documentID,
				PageNumber:   pageNumber,
				SectionTitle: r.SectionTitle,
				Text:         r.Text,
			}
		}
		return pages, nil
	}

	var digest digestArtifact
	if err := json.Unmarshal(data, &digest); err != nil {
		return nil, fmt.Errorf("parse digest artifact %q: %w", documentID, err)
	}
	pages := make([]domain.PageText, len(digest.SubsectionAnalysis))
	for i, sub := range digest.SubsectionAnalysis {
		page := domain.PageText{
			DocumentID: documentID,
			PageNumber: sub.PageNumber,
			Text:       sub.RefinedText,
		}
		if i < len(digest.ExtractedSections) {
			page.SectionTitle = digest.ExtractedSections[i].SectionTitle
		}
		pages[i] = page
	}
	return pages, nil
}
