package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print a digest of recent corpus entries",
	Args:  cobra.NoArgs,
	RunE:  runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	if digestService == nil {
		return errors.New("digest service not configured")
	}

	text, err := digestService.Recent(context.Background(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}
	if text == "" {
		cmd.Println("Corpus has no recent entries.")
		return nil
	}

	cmd.Println(text)
	return nil
}
