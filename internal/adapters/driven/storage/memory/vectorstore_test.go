package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
)

func TestVectorStore_AppendAndSearch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []driven.VectorEntry{
		{ChunkID: "c1", Embedding: []float32{1, 0}},
		{ChunkID: "c2", Embedding: []float32{0, 1}},
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.Equal(t, float64(0), hits[0].Distance)
}

func TestVectorStore_DimensionFixedByFirstAppend(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []driven.VectorEntry{
		{ChunkID: "c1", Embedding: []float32{1, 2, 3}},
	}))

	err := store.Append(ctx, []driven.VectorEntry{
		{ChunkID: "c2", Embedding: []float32{1, 2}},
	})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 3, store.Dimensions())
	assert.Equal(t, 1, store.Len())
}

func TestVectorStore_Remove(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, []driven.VectorEntry{
		{ChunkID: "c1", Embedding: []float32{1, 0}},
		{ChunkID: "c2", Embedding: []float32{0, 1}},
	}))
	require.NoError(t, store.Remove(ctx, []string{"c1"}))

	assert.Equal(t, []string{"c2"}, store.IDs())
}

func TestVectorStore_SearchEmpty(t *testing.T) {
	store := NewVectorStore()

	hits, err := store.Search(context.Background(), []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorStore_SearchInvalidK(t *testing.T) {
	store := NewVectorStore()

	_, err := store.Search(context.Background(), []float32{1}, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
