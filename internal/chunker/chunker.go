// Package chunker splits raw document text into bounded, retrievable units.
package chunker

import (
	"strings"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

// DefaultMaxChunkSize is the default soft chunk size bound in characters.
const DefaultMaxChunkSize = 400

// DefaultMinLength is the default substantiveness threshold in characters.
// Buffers shorter than this are discarded, never emitted.
const DefaultMinLength = 50

// Chunker accumulates sentence-like segments into bounded chunks.
// It is pure: the same input always yields the same chunks.
type Chunker struct {
	minLength int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMinLength sets the substantiveness threshold in characters.
func WithMinLength(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{minLength: DefaultMinLength}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Split chunks raw text for one document. Segments end at '.', '!' or '?'
// followed by whitespace; segments accumulate greedily until adding one
// would push the buffer past maxChunkSize, at which point the buffer is
// closed as a chunk. The bound is soft: a single oversize segment is
// still emitted whole rather than truncated mid-sentence.
//
// Empty or whitespace-only input yields no chunks. Never returns an error.
func (c *Chunker) Split(documentID, text string, maxChunkSize int) []domain.Chunk {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	var chunks []domain.Chunk
	st := &buffer{
		documentID:   documentID,
		sectionTitle: "",
		maxChunkSize: maxChunkSize,
		minLength:    c.minLength,
	}
	st.add(text, &chunks)
	st.flush(&chunks)
	return chunks
}

// SplitPages chunks a sequence of page records, propagating the most
// recent section title seen at or before each record and the record's
// page number into every chunk started there. Records for the same
// document must be contiguous and in page order. Sequence numbers are
// scoped per document.
func (c *Chunker) SplitPages(pages []domain.PageText, maxChunkSize int) []domain.Chunk {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	var chunks []domain.Chunk
	var st *buffer

	for _, page := range pages {
		if st == nil || st.documentID != page.DocumentID {
			if st != nil {
				st.flush(&chunks)
			}
			st = &buffer{
				documentID:   page.DocumentID,
				maxChunkSize: maxChunkSize,
				minLength:    c.minLength,
			}
		}
		if title := strings.TrimSpace(page.SectionTitle); title != "" {
			st.sectionTitle = title
		}
		st.pageNumber = page.PageNumber
		st.add(page.Text, &chunks)
	}
	if st != nil {
		st.flush(&chunks)
	}
	return chunks
}

// buffer is the running accumulation state for one document.
type buffer struct {
	documentID   string
	sectionTitle string
	pageNumber   int
	maxChunkSize int
	minLength    int

	current    string
	startTitle string
	startPage  int
	seq        int
}

// add splits text into sentence segments and feeds them to the buffer.
func (b *buffer) add(text string, out *[]domain.Chunk) {
	for _, segment := range splitSentences(text) {
		if b.current == "" {
			b.startTitle = b.sectionTitle
			b.startPage = b.pageNumber
			b.current = segment
			continue
		}
		if len(b.current)+1+len(segment) > b.maxChunkSize {
			b.close(out)
			b.startTitle = b.sectionTitle
			b.startPage = b.pageNumber
			b.current = segment
			continue
		}
		b.current += " " + segment
	}
}

// flush closes the final buffer under the same minimum-length rule.
func (b *buffer) flush(out *[]domain.Chunk) {
	b.close(out)
}

// close emits the current buffer as a chunk when it meets the
// substantiveness threshold, then resets the buffer.
func (b *buffer) close(out *[]domain.Chunk) {
	text := strings.TrimSpace(b.current)
	b.current = ""
	if len(text) <= b.minLength {
		return
	}

	title := b.startTitle
	if title == "" {
		title = domain.UntitledSection
	}

	b.seq++
	*out = append(*out, domain.Chunk{
		DocumentID:     b.documentID,
		Text:           text,
		SequenceNumber: b.seq,
		SectionTitle:   title,
		PageNumber:     b.startPage,
	})
}

// splitSentences breaks text into sentence-like segments. A segment ends
// at '.', '!' or '?' followed by whitespace. Trailing text without a
// terminator forms a final segment.
func splitSentences(text string) []string {
	var segments []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && !isSpace(text[i+1]) {
				continue
			}
			segment := strings.TrimSpace(text[start : i+1])
			if segment != "" {
				segments = append(segments, segment)
			}
			start = i + 1
		}
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		segments = append(segments, tail)
	}
	return segments
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
