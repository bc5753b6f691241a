package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Long: `Removes every index entry belonging to the document from both the
vector store and the mapping store. Deleting an unknown document is
a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	documentID := args[0]
	if err := indexService.Delete(context.Background(), documentID); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Removed index entries for %s.\n", documentID)
	return nil
}
