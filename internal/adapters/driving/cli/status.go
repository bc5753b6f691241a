package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system capability status",
	Long: `Reports whether the system runs in full or degraded capability:
embedding backend reachability, vector search, mapping store and
text source availability, and the number of indexed chunks.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	report := statusService.Report(context.Background())

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Mode: %s\n", report.Mode)
	cmd.Println()
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider:   %s\n", report.Embedding.Provider)
	cmd.Printf("  Model:      %s\n", report.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", report.Embedding.Dimensions)
	cmd.Printf("  Available:  %s\n", yesNo(report.Embedding.Available))
	if report.Embedding.Degraded {
		cmd.Println("  Degraded:   yes (fallback embedder in use)")
	}
	cmd.Println()
	cmd.Println("[Index]")
	cmd.Printf("  Vector search:  %s\n", yesNo(report.VectorSearch))
	cmd.Printf("  Mapping store:  %s\n", yesNo(report.MappingStore))
	cmd.Printf("  Indexed chunks: %d\n", report.IndexedChunks)
	cmd.Println()
	cmd.Printf("Text source: %s\n", yesNo(report.TextSource))

	if report.Mode == domain.ModeDegraded {
		cmd.Println()
		cmd.Println("The system is degraded; requests still succeed with reduced capability.")
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
