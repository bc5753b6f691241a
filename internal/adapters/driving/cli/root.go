// Package cli implements the command-line interface using cobra.
// Commands drive the core services through the driving ports; wiring
// happens once at startup via SetServices.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Service ports the commands drive. Nil services make the dependent
// commands fail with a clear error instead of panicking.
var (
	indexService    driving.IndexService
	rankingService  driving.RankingService
	ingestService   driving.IngestService
	statusService   driving.StatusService
	settingsService driving.SettingsService
	textSource      driven.TextSource
)

// Services groups everything the CLI needs injected.
type Services struct {
	Index    driving.IndexService
	Ranking  driving.RankingService
	Ingest   driving.IngestService
	Status   driving.StatusService
	Settings driving.SettingsService

	// TextSource backs the watch command directly.
	TextSource driven.TextSource
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	indexService = s.Index
	rankingService = s.Ranking
	ingestService = s.Ingest
	statusService = s.Status
	settingsService = s.Settings
	textSource = s.TextSource
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Chunk, index and rank document text",
	Long: `Quarry turns extracted document text into a searchable chunk index
and ranks sections by relevance to a persona and task.

Documents are split at sentence boundaries, embedded, and stored in a
two-part index: a mapping store for chunk text and a vector store for
nearest-neighbour search.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
