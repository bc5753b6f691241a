package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

var (
	analyzeDocs       []string
	analyzeRole       string
	analyzeExperience string
	analyzeFocus      []string
	analyzeJob        string
	analyzeGoal       string
	analyzeJSON       bool
	analyzeChunkSize  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [task description]",
	Short: "Rank document sections for a persona and task",
	Long: `Chunks the given documents, scores every chunk against the persona
and task description, and prints the most relevant sections with
refined text.

Examples:
  quarry analyze "Create fillable onboarding forms" \
    --doc acrobat-forms.json --doc acrobat-sharing.json \
    --role "HR professional" --job "Create and manage forms"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeDocs, "doc", nil, "document id to analyse (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeRole, "role", "", "persona role, e.g. \"Data Scientist\"")
	analyzeCmd.Flags().StringVar(&analyzeExperience, "experience", "", "persona experience level")
	analyzeCmd.Flags().StringSliceVar(&analyzeFocus, "focus", nil, "persona focus area (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeJob, "job", "", "job to be done")
	analyzeCmd.Flags().StringVar(&analyzeGoal, "goal", "", "longer-term goal")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output the digest as JSON")
	analyzeCmd.Flags().IntVar(&analyzeChunkSize, "max-chunk-size", 0, "soft chunk size bound in characters (0 = default)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if rankingService == nil {
		return errors.New("ranking service not configured")
	}
	if len(analyzeDocs) == 0 {
		return errors.New("provide at least one --doc")
	}

	req := domain.AnalysisRequest{
		DocumentIDs: analyzeDocs,
		Persona: domain.Persona{
			Role:       analyzeRole,
			Experience: analyzeExperience,
			FocusAreas: analyzeFocus,
		},
		Job: domain.Job{
			Task: analyzeJob,
			Goal: analyzeGoal,
		},
		TaskDescription: args[0],
		MaxChunkSize:    analyzeChunkSize,
	}

	digest, err := rankingService.Analyze(context.Background(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		data, err := json.MarshalIndent(digest, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal digest: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printDigest(cmd, digest)
	return nil
}

func printDigest(cmd *cobra.Command, digest *domain.Digest) {
	cmd.Printf("Persona: %s\n", digest.Persona)
	cmd.Printf("Job:     %s\n", digest.JobToBeDone)
	cmd.Println()

	if len(digest.ExtractedSections) == 0 {
		cmd.Println("No relevant sections found.")
	}

	for i, section := range digest.ExtractedSections {
		cmd.Printf("  [%d] %s - %s (page %d, score %.4f)\n",
			section.ImportanceRank, section.Document, section.SectionTitle,
			section.PageNumber, section.RelevanceScore)
		if i < len(digest.SubsectionAnalysis) {
			cmd.Printf("      %s\n", snippet(digest.SubsectionAnalysis[i].RefinedText, 160))
		}
		cmd.Println()
	}

	for _, failure := range digest.Failed {
		cmd.Printf("  %s: FAILED (%s)\n", failure.DocumentID, failure.Reason)
	}

	if digest.PersonaIndexID != "" {
		cmd.Printf("Indexed %d refined sections under %s\n", len(digest.ChunkIDs), digest.PersonaIndexID)
	}
}
