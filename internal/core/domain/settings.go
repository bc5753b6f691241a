package domain

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderHashing is the deterministic hash-based embedder.
	// It needs no external service and never fails; it also serves as
	// the degraded-mode fallback for the other providers.
	EmbeddingProviderHashing EmbeddingProvider = "hashing"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOllama, EmbeddingProviderOpenAI, EmbeddingProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsLocal returns true if this provider runs without network access
// to a cloud API.
func (p EmbeddingProvider) IsLocal() bool {
	return p == EmbeddingProviderOllama || p == EmbeddingProviderHashing
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderHashing:
		return "Hashing (deterministic, no model)"
	default:
		return "Unknown"
	}
}

// EmbeddingSettings configures the embedding backend.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider EmbeddingProvider

	// Model is the embedding model name (provider-dependent).
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey authenticates with cloud providers.
	APIKey string

	// Dimensions is the vector size. Primary and fallback embedders
	// must be configured to the same value.
	Dimensions int
}

// IsConfigured returns true if the provider has everything it needs.
func (s EmbeddingSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings configures the text chunker.
type ChunkingSettings struct {
	// MaxChunkSize is the soft chunk size bound in characters.
	MaxChunkSize int

	// MinChunkLength is the substantiveness threshold; shorter
	// buffers are discarded, never emitted.
	MinChunkLength int
}

// RankingSettings configures persona relevance ranking.
type RankingSettings struct {
	// TopSections is the number of sections selected per analysis.
	TopSections int

	// RefinedTextLimit caps the refined text length in characters.
	RefinedTextLimit int
}

// SourceSettings configures the document text source.
type SourceSettings struct {
	// DocumentsDir is the directory holding extracted text artifacts.
	DocumentsDir string
}

// APISettings configures the HTTP API server.
type APISettings struct {
	// ListenAddr is the address the server binds to.
	ListenAddr string
}

// AppSettings groups all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Ranking   RankingSettings
	Source    SourceSettings
	API       APISettings
}

// Default settings values.
const (
	DefaultMaxChunkSize     = 400
	DefaultMinChunkLength   = 50
	DefaultTopSections      = 10
	DefaultRefinedTextLimit = 1000
	DefaultListenAddr       = ":8080"
	DefaultHashDimensions   = 384
)

// DefaultAppSettings returns the out-of-the-box configuration.
// The hashing provider is the default so a fresh install works
// without any external service.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderHashing,
			Dimensions: DefaultHashDimensions,
		},
		Chunking: ChunkingSettings{
			MaxChunkSize:   DefaultMaxChunkSize,
			MinChunkLength: DefaultMinChunkLength,
		},
		Ranking: RankingSettings{
			TopSections:      DefaultTopSections,
			RefinedTextLimit: DefaultRefinedTextLimit,
		},
		Source: SourceSettings{},
		API: APISettings{
			ListenAddr: DefaultListenAddr,
		},
	}
}

// Validate checks settings for consistency.
func (s *AppSettings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return ErrInvalidInput
	}
	if s.Embedding.Dimensions <= 0 {
		return ErrInvalidInput
	}
	if s.Chunking.MaxChunkSize <= 0 || s.Chunking.MinChunkLength < 0 {
		return ErrInvalidInput
	}
	if s.Ranking.TopSections <= 0 || s.Ranking.RefinedTextLimit <= 0 {
		return ErrInvalidInput
	}
	return nil
}
