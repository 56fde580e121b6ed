package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestFull bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest source documents into the corpus",
	Long: `Walks the source-document tree and appends new chunks to the
corpus. Files whose content is unchanged since the last run are
skipped; --full reprocesses everything.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestFull, "full", false, "reprocess all files, not just changed ones")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	result, err := ingestService.Ingest(context.Background(), ingestFull)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingest complete: %d chunks added\n", result.AddedChunks)
	cmd.Printf("  processed: %d  skipped: %d  failed: %d\n",
		result.FilesProcessed, result.FilesSkipped, result.FilesFailed)
	return nil
}
