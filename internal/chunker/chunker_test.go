package chunker

import (
	"strings"
	"testing"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default min length", func(t *testing.T) {
		c := New()
		if c.minLength != DefaultMinLength {
			t.Errorf("expected minLength %d, got %d", DefaultMinLength, c.minLength)
		}
	})

	t.Run("custom min length", func(t *testing.T) {
		c := New(WithMinLength(10))
		if c.minLength != 10 {
			t.Errorf("expected minLength 10, got %d", c.minLength)
		}
	})

	t.Run("negative min length ignored", func(t *testing.T) {
		c := New(WithMinLength(-1))
		if c.minLength != DefaultMinLength {
			t.Errorf("expected default minLength, got %d", c.minLength)
		}
	})
}

func TestChunker_Split(t *testing.T) {
	t.Run("empty input yields no chunks", func(t *testing.T) {
		c := New()
		if got := c.Split("doc", "", 400); len(got) != 0 {
			t.Errorf("expected 0 chunks, got %d", len(got))
		}
	})

	t.Run("whitespace input yields no chunks", func(t *testing.T) {
		c := New()
		if got := c.Split("doc", "  \n\t  ", 400); len(got) != 0 {
			t.Errorf("expected 0 chunks, got %d", len(got))
		}
	})

	t.Run("short buffer is discarded", func(t *testing.T) {
		c := New()
		if got := c.Split("doc", "Too short.", 400); len(got) != 0 {
			t.Errorf("expected 0 chunks, got %d", len(got))
		}
	})

	t.Run("sentences accumulate greedily", func(t *testing.T) {
		c := New(WithMinLength(10))
		sentence := "This sentence is about forty characters. "
		text := strings.Repeat(sentence, 10)

		chunks := c.Split("doc", text, 100)
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		for i, chunk := range chunks {
			if chunk.SequenceNumber != i+1 {
				t.Errorf("chunk %d: expected sequence %d, got %d", i, i+1, chunk.SequenceNumber)
			}
			if chunk.DocumentID != "doc" {
				t.Errorf("chunk %d: expected document id doc, got %q", i, chunk.DocumentID)
			}
			// Two forty-char sentences fit; a third would exceed 100.
			if len(chunk.Text) > 100 && i < len(chunks)-1 {
				t.Errorf("chunk %d: length %d exceeds soft bound unexpectedly", i, len(chunk.Text))
			}
		}
	})

	t.Run("oversize segment emitted whole", func(t *testing.T) {
		c := New()
		text := "A. B. " + strings.Repeat("x", 500)

		chunks := c.Split("doc", text, 400)
		if len(chunks) != 1 {
			t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
		}
		if len(chunks[0].Text) != 500 {
			t.Errorf("expected 500-char chunk, got %d", len(chunks[0].Text))
		}
		if chunks[0].SequenceNumber != 1 {
			t.Errorf("expected sequence 1, got %d", chunks[0].SequenceNumber)
		}
	})

	t.Run("minimum threshold respected for every chunk", func(t *testing.T) {
		c := New()
		text := strings.Repeat("Quite a reasonable sentence with useful content inside. ", 30)

		for _, chunk := range c.Split("doc", text, 200) {
			if len(chunk.Text) <= DefaultMinLength {
				t.Errorf("chunk below threshold emitted: %d chars", len(chunk.Text))
			}
		}
	})

	t.Run("zero max size uses default", func(t *testing.T) {
		c := New(WithMinLength(0))
		text := strings.Repeat("Short sentence here. ", 50)

		chunks := c.Split("doc", text, 0)
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		for _, chunk := range chunks[:len(chunks)-1] {
			if len(chunk.Text) > DefaultMaxChunkSize {
				t.Errorf("chunk length %d exceeds default bound", len(chunk.Text))
			}
		}
	})
}

func TestChunker_SplitPages(t *testing.T) {
	longText := func(s string) string {
		return strings.Repeat(s+" ", 3) + "This filler sentence makes the page text substantial enough."
	}

	t.Run("propagates titles and page numbers", func(t *testing.T) {
		c := New(WithMinLength(10))
		pages := []domain.PageText{
			{DocumentID: "doc1", PageNumber: 1, SectionTitle: "Introduction", Text: longText("Opening remarks about the topic.")},
			{DocumentID: "doc1", PageNumber: 2, SectionTitle: "", Text: longText("Continuation without a new heading.")},
			{DocumentID: "doc1", PageNumber: 3, SectionTitle: "Methods", Text: longText("The methods section begins here.")},
		}

		chunks := c.SplitPages(pages, 400)
		if len(chunks) < 2 {
			t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
		}

		if chunks[0].SectionTitle != "Introduction" {
			t.Errorf("expected first chunk title Introduction, got %q", chunks[0].SectionTitle)
		}

		// A chunk started on page 3 carries the Methods heading.
		var sawMethods bool
		for _, chunk := range chunks {
			if chunk.SectionTitle == "Methods" {
				sawMethods = true
				if chunk.PageNumber != 3 {
					t.Errorf("Methods chunk: expected page 3, got %d", chunk.PageNumber)
				}
			}
		}
		if !sawMethods {
			t.Error("expected a chunk with the Methods title")
		}
	})

	t.Run("untitled fallback", func(t *testing.T) {
		c := New(WithMinLength(10))
		pages := []domain.PageText{
			{DocumentID: "doc1", PageNumber: 1, Text: longText("No heading was ever seen before this text.")},
		}

		chunks := c.SplitPages(pages, 400)
		if len(chunks) == 0 {
			t.Fatal("expected chunks")
		}
		if chunks[0].SectionTitle != domain.UntitledSection {
			t.Errorf("expected %q, got %q", domain.UntitledSection, chunks[0].SectionTitle)
		}
	})

	t.Run("sequence numbers scoped per document", func(t *testing.T) {
		c := New(WithMinLength(10))
		pages := []domain.PageText{
			{DocumentID: "doc1", PageNumber: 1, Text: longText("Content for the first document.")},
			{DocumentID: "doc2", PageNumber: 1, Text: longText("Content for the second document.")},
		}

		chunks := c.SplitPages(pages, 4000)
		if len(chunks) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(chunks))
		}
		if chunks[0].SequenceNumber != 1 || chunks[1].SequenceNumber != 1 {
			t.Errorf("expected per-document sequence restart, got %d and %d",
				chunks[0].SequenceNumber, chunks[1].SequenceNumber)
		}
		if chunks[0].DocumentID == chunks[1].DocumentID {
			t.Error("expected chunks from different documents")
		}
	})

	t.Run("empty pages yield no chunks", func(t *testing.T) {
		c := New()
		if got := c.SplitPages(nil, 400); len(got) != 0 {
			t.Errorf("expected 0 chunks, got %d", len(got))
		}
	})
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"terminators with whitespace", "One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"decimal point not a boundary", "Pi is 3.14 roughly.", []string{"Pi is 3.14 roughly."}},
		{"trailing text without terminator", "First. tail", []string{"First.", "tail"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d segments, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
