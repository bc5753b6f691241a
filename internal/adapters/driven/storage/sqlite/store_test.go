package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", DocumentID: "doc1", Text: "first chunk text", SequenceNumber: 1, SectionTitle: "Intro", PageNumber: 1},
		{ID: "c2", DocumentID: "doc1", Text: "second chunk text", SequenceNumber: 2, SectionTitle: "Intro", PageNumber: 2},
		{ID: "c3", DocumentID: "doc2", Text: "other document text", SequenceNumber: 1, SectionTitle: "Methods", PageNumber: 1},
	}
}

func TestSaveAndGetChunk(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testChunks()))

	chunk, err := store.GetChunk(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "doc1", chunk.DocumentID)
	assert.Equal(t, "second chunk text", chunk.Text)
	assert.Equal(t, 2, chunk.SequenceNumber)
	assert.Equal(t, "Intro", chunk.SectionTitle)
	assert.Equal(t, 2, chunk.PageNumber)
}

func TestGetChunk_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetChunk(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetText(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testChunks()))

	t.Run("known chunk", func(t *testing.T) {
		text, err := store.GetText(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "first chunk text", text)
	})

	t.Run("unknown chunk returns empty, no error", func(t *testing.T) {
		text, err := store.GetText(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}

func TestListByDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testChunks()))

	chunks, err := store.ListByDocument(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ID)
	assert.Equal(t, "c2", chunks[1].ID)

	empty, err := store.ListByDocument(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDeleteByDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testChunks()))
	require.NoError(t, store.DeleteByDocument(ctx, "doc1"))

	// doc1 chunks gone, doc2 untouched.
	chunks, err := store.ListByDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunk, err := store.GetChunk(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, "doc2", chunk.DocumentID)

	// Deleting an unknown document is a no-op.
	assert.NoError(t, store.DeleteByDocument(ctx, "never-existed"))
}

func TestChunkIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, testChunks()))

	ids, err := store.ChunkIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "c1")
	assert.Contains(t, ids, "c2")
	assert.Contains(t, ids, "c3")
}

func TestSaveChunks_RejectsMissingID(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveChunks(context.Background(), []domain.Chunk{
		{DocumentID: "doc1", Text: "no id"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSaveChunks_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc1", Text: "original", SequenceNumber: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocumentID: "doc1", Text: "updated", SequenceNumber: 1},
	}))

	text, err := store.GetText(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "updated", text)

	ids, err := store.ChunkIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestReopen_PersistsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveChunks(ctx, testChunks()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	text, err := reopened.GetText(ctx, "c3")
	require.NoError(t, err)
	assert.Equal(t, "other document text", text)
}
