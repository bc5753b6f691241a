package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driving"
)

var (
	ingestAll          bool
	ingestMaxChunkSize int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [doc-ids...]",
	Short: "Chunk and index documents",
	Long: `Reads documents from the configured source directory, splits them
into sentence-aligned chunks and adds them to the index.

Re-ingesting a document replaces its previous index entries. A document
that fails to ingest is reported and does not abort the others.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestAll, "all", false, "ingest every document in the source directory")
	ingestCmd.Flags().IntVar(&ingestMaxChunkSize, "max-chunk-size", 0, "soft chunk size bound in characters (0 = default)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if !ingestAll && len(args) == 0 {
		return errors.New("provide document ids or --all")
	}

	ctx := context.Background()

	var result *driving.IngestResult
	var err error
	if ingestAll {
		result, err = ingestService.IngestAll(ctx, ingestMaxChunkSize)
	} else {
		result, err = ingestService.Ingest(ctx, args, ingestMaxChunkSize)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestResult(cmd, result)
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d documents failed", len(result.Failed))
	}
	return nil
}

func printIngestResult(cmd *cobra.Command, result *driving.IngestResult) {
	ids := make([]string, 0, len(result.Processed))
	for id := range result.Processed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cmd.Printf("  %s: %d chunks\n", id, result.Processed[id])
	}
	for _, failure := range result.Failed {
		cmd.Printf("  %s: FAILED (%s)\n", failure.DocumentID, failure.Reason)
	}
	cmd.Printf("Ingested %d documents, %d failed.\n", len(result.Processed), len(result.Failed))
}
