package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the long-term user profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rewrite the profile from new corpus lines",
	Long: `Reads corpus lines added since the last update, hands them to
the LLM together with the current profile, and saves the rewritten
profile. The read cursor advances even if the rewrite fails, so
evidence is never replayed. Requires a configured LLM provider.`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

func init() {
	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}
	if err := validateLLM(); err != nil {
		return err
	}

	updated, err := profileService.Update(context.Background())
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	if updated {
		cmd.Println("Profile rewritten.")
	} else {
		cmd.Println("No new corpus lines, profile unchanged.")
	}
	return nil
}
