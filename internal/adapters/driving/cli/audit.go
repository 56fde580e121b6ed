package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit [session]",
	Short: "Show recent friend-mode exchanges for a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "maximum number of records")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	if auditStore == nil {
		return errors.New("audit store not configured")
	}

	records, err := auditStore.Recent(context.Background(), args[0], auditLimit)
	if err != nil {
		return fmt.Errorf("audit query failed: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No records for this session.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  %s\n", rec.At.Format("2006-01-02 15:04:05"), rec.ID)
		cmd.Printf("  Q: %s\n", snippetLine(rec.Query))
		cmd.Printf("  A: %s\n", snippetLine(rec.Reply))
		for _, seg := range rec.Meta.Segments {
			cmd.Printf("     [%d] %s top=%.3f hits=%d\n",
				seg.Index, seg.Route, seg.TopScore, seg.HitCount)
		}
		cmd.Println()
	}
	return nil
}
