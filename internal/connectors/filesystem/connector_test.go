package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestSource_List(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "b.txt", "beta")
	writeArtifact(t, tempDir, "a.json", `[]`)
	writeArtifact(t, tempDir, "notes.md", "ignored")
	writeArtifact(t, tempDir, ".hidden.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "sub"), 0755))

	source := New(tempDir)
	ids, err := source.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.json", "b.txt"}, ids)
}

func TestSource_ListMissingDir(t *testing.T) {
	source := New(filepath.Join(t.TempDir(), "nope"))

	_, err := source.List(context.Background())
	assert.Error(t, err)
}

func TestSource_PagesText(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "doc.txt", "The whole document text.")

	source := New(tempDir)
	pages, err := source.Pages(context.Background(), "doc.txt")
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "doc.txt", pages[0].DocumentID)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Empty(t, pages[0].SectionTitle)
	assert.Equal(t, "The whole document text.", pages[0].Text)
}

func TestSource_PagesJSON(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "doc.json", `[
		{"page_number": 1, "section_title": "Intro", "text": "First page."},
		{"page_number": 2, "section_title": "Detail", "text": "Second page."}
	]`)

	source := New(tempDir)
	pages, err := source.Pages(context.Background(), "doc.json")
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "Intro", pages[0].SectionTitle)
	assert.Equal(t, 2, pages[1].PageNumber)
	assert.Equal(t, "Second page.", pages[1].Text)
}

func TestSource_PagesJSONDefaultsPageNumbers(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "doc.json", `[
		{"text": "First."},
		{"text": "Second."}
	]`)

	source := New(tempDir)
	pages, err := source.Pages(context.Background(), "doc.json")
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, 2, pages[1].PageNumber)
}

func TestSource_PagesDigestShape(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "digest.json", `{
		"extracted_sections": [
			{"section_title": "Forms", "page_number": 3},
			{"section_title": "Sharing", "page_number": 7}
		],
		"subsection_analysis": [
			{"refined_text": "How to create forms.", "page_number": 3},
			{"refined_text": "How to share documents.", "page_number": 7}
		]
	}`)

	source := New(tempDir)
	pages, err := source.Pages(context.Background(), "digest.json")
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "Forms", pages[0].SectionTitle)
	assert.Equal(t, 3, pages[0].PageNumber)
	assert.Equal(t, "How to create forms.", pages[0].Text)
	assert.Equal(t, "Sharing", pages[1].SectionTitle)
}

func TestSource_PagesUnknownDocument(t *testing.T) {
	source := New(t.TempDir())

	_, err := source.Pages(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSource_PagesRejectsPathTraversal(t *testing.T) {
	source := New(t.TempDir())

	for _, id := range []string{"../etc/passwd.txt", "sub/doc.txt", "doc.md"} {
		_, err := source.Pages(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "id %q", id)
	}
}

func TestSource_PagesInvalidJSON(t *testing.T) {
	tempDir := t.TempDir()
	writeArtifact(t, tempDir, "broken.json", `{not json`)

	source := New(tempDir)
	_, err := source.Pages(context.Background(), "broken.json")
	assert.Error(t, err)
}

func TestSource_Watch(t *testing.T) {
	t.Run("emits update on create", func(t *testing.T) {
		tempDir := t.TempDir()
		source := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := source.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(filepath.Join(tempDir, "new.txt"), []byte("content"), 0644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, driven.ChangeUpdated, change.Op)
			assert.Equal(t, "new.txt", change.DocumentID)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change event")
		}
	})

	t.Run("emits remove on delete", func(t *testing.T) {
		tempDir := t.TempDir()
		writeArtifact(t, tempDir, "doomed.txt", "delete me")

		source := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := source.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.Remove(filepath.Join(tempDir, "doomed.txt"))
		}()

		for {
			select {
			case change := <-changes:
				if change.Op == driven.ChangeRemoved {
					assert.Equal(t, "doomed.txt", change.DocumentID)
					return
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timeout waiting for remove event")
			}
		}
	})

	t.Run("ignores non-artifact files", func(t *testing.T) {
		tempDir := t.TempDir()
		source := New(tempDir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := source.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(filepath.Join(tempDir, "scratch.md"), []byte("x"), 0644)
			os.WriteFile(filepath.Join(tempDir, "real.txt"), []byte("y"), 0644)
		}()

		select {
		case change := <-changes:
			// The markdown write must not surface; the first event we
			// see is the artifact.
			assert.Equal(t, "real.txt", change.DocumentID)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change event")
		}
	})

	t.Run("channel closes on cancel", func(t *testing.T) {
		source := New(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := source.Watch(ctx)
		require.NoError(t, err)

		cancel()
		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for channel close")
		}
	})
}

func TestSource_WatchMissingDir(t *testing.T) {
	source := New(filepath.Join(t.TempDir(), "nope"))

	_, err := source.Watch(context.Background())
	assert.Error(t, err)
}
