package services

import (
	"fmt"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyChunkMaxSize    = "chunking.max_chunk_size"
	keyChunkMinLength  = "chunking.min_chunk_length"
	keyRankTopSections = "ranking.top_sections"
	keyRankRefineLimit = "ranking.refined_text_limit"
	keySourceDir       = "source.documents_dir"
	keyAPIListenAddr   = "api.listen_addr"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(defaults.Embedding.Provider),
			Model:      s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
		},
		Chunking: domain.ChunkingSettings{
			MaxChunkSize:   s.getInt(keyChunkMaxSize, defaults.Chunking.MaxChunkSize),
			MinChunkLength: s.getInt(keyChunkMinLength, defaults.Chunking.MinChunkLength),
		},
		Ranking: domain.RankingSettings{
			TopSections:      s.getInt(keyRankTopSections, defaults.Ranking.TopSections),
			RefinedTextLimit: s.getInt(keyRankRefineLimit, defaults.Ranking.RefinedTextLimit),
		},
		Source: domain.SourceSettings{
			DocumentsDir: s.configStore.GetString(keySourceDir),
		},
		API: domain.APISettings{
			ListenAddr: s.getString(keyAPIListenAddr, defaults.API.ListenAddr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}

	if err := s.configStore.Set(keyChunkMaxSize, settings.Chunking.MaxChunkSize); err != nil {
		return fmt.Errorf("save max chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkMinLength, settings.Chunking.MinChunkLength); err != nil {
		return fmt.Errorf("save min chunk length: %w", err)
	}

	if err := s.configStore.Set(keyRankTopSections, settings.Ranking.TopSections); err != nil {
		return fmt.Errorf("save top sections: %w", err)
	}
	if err := s.configStore.Set(keyRankRefineLimit, settings.Ranking.RefinedTextLimit); err != nil {
		return fmt.Errorf("save refined text limit: %w", err)
	}

	if err := s.configStore.Set(keySourceDir, settings.Source.DocumentsDir); err != nil {
		return fmt.Errorf("save documents dir: %w", err)
	}
	if err := s.configStore.Set(keyAPIListenAddr, settings.API.ListenAddr); err != nil {
		return fmt.Errorf("save listen addr: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = defaultModel(provider)
	}
	if apiKey != "" {
		settings.Embedding.APIKey = apiKey
	}

	switch {
	case provider == domain.EmbeddingProviderOllama && settings.Embedding.BaseURL == "":
		settings.Embedding.BaseURL = "http://localhost:11434"
	case !provider.IsLocal():
		// Cloud providers use their well-known endpoint.
		settings.Embedding.BaseURL = ""
	}

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return *domain.DefaultAppSettings()
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings invalid: %w", err)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %s is not fully configured", settings.Embedding.Provider)
	}
	return nil
}

func (s *SettingsService) getProvider(fallback domain.EmbeddingProvider) domain.EmbeddingProvider {
	raw := s.configStore.GetString(keyEmbedProvider)
	if raw == "" {
		return fallback
	}
	provider := domain.EmbeddingProvider(raw)
	if !provider.IsValid() {
		return fallback
	}
	return provider
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getInt(key string, fallback int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

// defaultModel returns the default model name for a provider.
func defaultModel(provider domain.EmbeddingProvider) string {
	switch provider {
	case domain.EmbeddingProviderOllama:
		return "nomic-embed-text"
	case domain.EmbeddingProviderOpenAI:
		return "text-embedding-3-small"
	default:
		return ""
	}
}
