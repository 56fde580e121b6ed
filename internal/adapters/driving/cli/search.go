package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve weighted corpus chunks",
	Long: `Ranks corpus chunks against the query by lexical similarity,
composed with the cognitive-depth and recency multipliers when those
are enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 6, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrieveService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()
	opts := driving.RetrieveOptions{
		TopK: searchLimit,
	}
	if appConfig != nil {
		opts.MaxScan = appConfig.MaxScan
	}

	hits, err := retrieveService.Retrieve(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}

	return outputSearchTable(cmd, hits)
}

type searchResultJSON struct {
	UID       string  `json:"uid,omitempty"`
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	FilePath  string  `json:"file_path,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	BaseSim   float64 `json:"base_similarity"`
	CogWeight float64 `json:"cog_weight"`
	TimeW     float64 `json:"time_weight"`
	Score     float64 `json:"final_score"`
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.RetrievalHit) error {
	out := make([]searchResultJSON, 0, len(hits))
	for _, h := range hits {
		out = append(out, searchResultJSON{
			UID:       h.UID,
			Text:      h.Text,
			Source:    string(h.Source),
			FilePath:  h.FilePath,
			CreatedAt: h.CreatedAt,
			BaseSim:   h.BaseSimilarity,
			CogWeight: h.CogWeight,
			TimeW:     h.TimeWeight,
			Score:     h.FinalScore,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.RetrievalHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, h := range hits {
		cmd.Printf("  [%d] %.3f (sim %.3f, cog %.2f, time %.2f)\n",
			i+1, h.FinalScore, h.BaseSimilarity, h.CogWeight, h.TimeWeight)
		if h.FilePath != "" {
			cmd.Printf("      %s: %s\n", h.Source, h.FilePath)
		}
		cmd.Printf("      %s\n", snippetLine(h.Text))
		cmd.Println()
	}
	return nil
}

// snippetLine flattens chunk text to one bounded display line.
func snippetLine(text string) string {
	flat := make([]rune, 0, 120)
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		flat = append(flat, r)
		if len(flat) >= 120 {
			return string(flat) + "…"
		}
	}
	return string(flat)
}
