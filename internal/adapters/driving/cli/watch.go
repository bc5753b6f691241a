package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/ports/driven"
	"github.com/quarry-labs/quarry-cli/internal/logger"
)

var watchMaxChunkSize int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directory and keep the index in sync",
	Long: `Watches the document source directory for changes. New or modified
documents are re-ingested; removed documents have their index
entries deleted. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchMaxChunkSize, "max-chunk-size", 0, "soft chunk size bound in characters (0 = default)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if textSource == nil {
		return errors.New("text source not configured")
	}
	if ingestService == nil || indexService == nil {
		return errors.New("index services not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes, err := textSource.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watching: %w", err)
	}

	cmd.Println("Watching for document changes. Press Ctrl+C to stop.")

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped watching.")
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			handleChange(ctx, cmd, change)
		}
	}
}

func handleChange(ctx context.Context, cmd *cobra.Command, change driven.TextChange) {
	switch change.Op {
	case driven.ChangeUpdated:
		result, err := ingestService.Ingest(ctx, []string{change.DocumentID}, watchMaxChunkSize)
		if err != nil {
			logger.Warn("Re-ingest of %s failed: %v", change.DocumentID, err)
			return
		}
		if len(result.Failed) > 0 {
			cmd.Printf("  %s: FAILED (%s)\n", change.DocumentID, result.Failed[0].Reason)
			return
		}
		cmd.Printf("  %s: %d chunks indexed\n", change.DocumentID, result.Processed[change.DocumentID])
	case driven.ChangeRemoved:
		if err := indexService.Delete(ctx, change.DocumentID); err != nil {
			logger.Warn("Delete of %s failed: %v", change.DocumentID, err)
			return
		}
		cmd.Printf("  %s: removed from index\n", change.DocumentID)
	}
}
