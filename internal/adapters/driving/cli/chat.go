package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the persona backed by your profile",
	Long: `Sends one message to the LLM persona. The system prompt carries
your long-term profile and a digest of recent corpus entries, so the
persona answers as someone who knows you. Requires a configured LLM
provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if personaService == nil {
		return errors.New("persona service not configured")
	}
	if err := validateLLM(); err != nil {
		return err
	}

	reply, err := personaService.Answer(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(reply)
	return nil
}
