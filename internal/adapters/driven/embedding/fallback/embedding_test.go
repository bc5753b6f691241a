package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/hashing"
)

// failingEmbedder simulates an unreachable primary backend.
type failingEmbedder struct {
	dims    int
	err     error
	pingErr error
}

func (f *failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dims), nil
}

func (f *failingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dims)
	}
	return out, nil
}

func (f *failingEmbedder) Dimensions() int              { return f.dims }
func (f *failingEmbedder) ModelName() string            { return "primary-model" }
func (f *failingEmbedder) Ping(_ context.Context) error { return f.pingErr }
func (f *failingEmbedder) Close() error                 { return nil }

func TestNewEmbeddingService_DimensionMismatch(t *testing.T) {
	primary := &failingEmbedder{dims: 768}
	degraded := hashing.NewEmbeddingService(384)

	_, err := NewEmbeddingService(primary, degraded)
	assert.Error(t, err)
}

func TestEmbed_PrimaryHealthy(t *testing.T) {
	primary := &failingEmbedder{dims: 384}
	degraded := hashing.NewEmbeddingService(384)
	s, err := NewEmbeddingService(primary, degraded)
	require.NoError(t, err)

	embedding, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, embedding, 384)
	assert.False(t, s.Degraded())
	assert.Equal(t, "primary-model", s.ModelName())
}

func TestEmbed_FallsBackOnFailure(t *testing.T) {
	primary := &failingEmbedder{dims: 384, err: errors.New("connection refused")}
	degraded := hashing.NewEmbeddingService(384)
	s, err := NewEmbeddingService(primary, degraded)
	require.NoError(t, err)

	embedding, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, embedding, 384)
	assert.True(t, s.Degraded())

	// The fallback result matches the hashing embedder directly.
	want, err := degraded.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, want, embedding)
}

func TestEmbedBatch_FallsBackWholeBatch(t *testing.T) {
	primary := &failingEmbedder{dims: 384, err: errors.New("boom")}
	degraded := hashing.NewEmbeddingService(384)
	s, err := NewEmbeddingService(primary, degraded)
	require.NoError(t, err)

	batch, err := s.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.True(t, s.Degraded())
}

func TestPing_NeverFails(t *testing.T) {
	primary := &failingEmbedder{dims: 384, pingErr: errors.New("unreachable")}
	degraded := hashing.NewEmbeddingService(384)
	s, err := NewEmbeddingService(primary, degraded)
	require.NoError(t, err)

	assert.NoError(t, s.Ping(context.Background()))
	assert.True(t, s.Degraded())
}
