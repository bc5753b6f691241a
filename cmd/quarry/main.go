// Command quarry is the entry point for the Quarry CLI.
// It wires driven adapters to core services and hands them to the
// cobra command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/config/file"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/fallback"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/hashing"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/ollama"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/embedding/openai"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/storage/sqlite"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driven/storage/vectorfile"
	"github.com/quarry-labs/quarry-cli/internal/adapters/driving/cli"
	"github.com/quarry-labs/quarry-cli/internal/connectors/filesystem"
	"github.com/quarry-labs/quarry-cli/internal/core/domain"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/services"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// defaultDocumentsDir is used when no source directory is configured.
const defaultDocumentsDir = "documents"

func main() {
	// A .env file is optional; the environment always wins.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	applyEnvOverrides(settings)

	embedder := buildEmbedder(settings.Embedding)

	chunkStore, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening mapping store: %w", err)
	}
	defer chunkStore.Close()

	// The vector half is optional: when it cannot be opened the index
	// degrades to mapping-only inserts and empty search results.
	var vectorStore driven.VectorStore
	if vs, err := vectorfile.NewStore(vectorStorePath()); err != nil {
		logger.Warn("vector store unavailable, running degraded: %v", err)
	} else {
		vectorStore = vs
		defer vs.Close()
	}

	indexService := services.NewIndexService(chunkStore, vectorStore, embedder)

	// Drop vectors whose insert never reached the mapping store.
	if removed, err := indexService.Reconcile(context.Background()); err != nil {
		logger.Warn("index reconciliation failed: %v", err)
	} else if removed > 0 {
		logger.Info("reconciled index, removed %d orphan vectors", removed)
	}

	docsDir := settings.Source.DocumentsDir
	if docsDir == "" {
		docsDir = defaultDocumentsDir
	}
	source := filesystem.New(docsDir)

	rankingService := services.NewRankingService(source, embedder, indexService, settings.Ranking, settings.Chunking)
	ingestService := services.NewIngestService(source, indexService, settings.Chunking)
	statusService := services.NewStatusService(
		embedder, vectorStore, chunkStore, source, settings.Embedding.Provider,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Index:      indexService,
		Ranking:    rankingService,
		Ingest:     ingestService,
		Status:     statusService,
		Settings:   settingsService,
		TextSource: source,
	})

	return cli.Execute()
}

// applyEnvOverrides lets the environment supply secrets so they never
// have to live in the config file.
func applyEnvOverrides(settings *domain.AppSettings) {
	if key := os.Getenv("QUARRY_OPENAI_API_KEY"); key != "" {
		settings.Embedding.APIKey = key
	}
	if url := os.Getenv("QUARRY_OLLAMA_BASE_URL"); url != "" {
		settings.Embedding.BaseURL = url
	}
	if dir := os.Getenv("QUARRY_DOCUMENTS_DIR"); dir != "" {
		settings.Source.DocumentsDir = dir
	}
}

// buildEmbedder assembles the configured embedding backend wrapped in
// the deterministic hashing fallback. Misconfigured cloud providers
// degrade to the hashing embedder instead of failing startup.
func buildEmbedder(cfg domain.EmbeddingSettings) driven.EmbeddingService {
	hash := hashing.NewEmbeddingService(cfg.Dimensions)

	var primary driven.EmbeddingService
	switch cfg.Provider {
	case domain.EmbeddingProviderOllama:
		primary = ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case domain.EmbeddingProviderOpenAI:
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			logger.Warn("openai embedder unavailable, using hashing embedder: %v", err)
			return hash
		}
		primary = svc
	default:
		return hash
	}

	wrapped, err := fallback.NewEmbeddingService(primary, hash)
	if err != nil {
		logger.Warn("embedding fallback unavailable, using hashing embedder: %v", err)
		return hash
	}
	return wrapped
}

// vectorStorePath returns the default location of the vector half.
func vectorStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".quarry", "data", "vectors.qvf")
	}
	return filepath.Join(home, ".quarry", "data", "vectors.qvf")
}
