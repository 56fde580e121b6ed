package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/core/services"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var (
	askSession  string
	askShowMeta bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question in friend mode",
	Long: `Retrieves against the corpus, routes the question as Known,
Unknown or Ambiguous, and composes a template-driven reply. Compound
questions are split and answered segment by segment. No LLM is
involved; every line of the reply is traceable to the corpus or to a
web search.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "local", "session identifier for audit grouping")
	askCmd.Flags().BoolVar(&askShowMeta, "meta", false, "print routing metadata as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrieveService == nil || friendService == nil {
		return errors.New("friend mode not configured")
	}

	ctx := context.Background()
	opts := driving.RetrieveOptions{}
	if appConfig != nil {
		opts.TopK = appConfig.TopK
		opts.MaxScan = appConfig.MaxScan
	}

	hits, err := retrieveService.Retrieve(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}
	pack := domain.PackFromInput(domain.PackInput{Hits: hits})

	reply, meta := friendService.AnswerWithMeta(ctx, query, pack, routeThresholds)

	sessions.Do(askSession, func(s *services.Session) {
		s.LastQuery = query
		s.LastPack = pack
		s.LastMeta = meta
		s.Turns++
	})

	if auditStore != nil {
		err := auditStore.Log(ctx, driven.AuditRecord{
			SessionID: askSession,
			Query:     query,
			Reply:     reply,
			Meta:      meta,
			At:        time.Now().UTC(),
		})
		if err != nil {
			logger.Warn("audit log failed: %v", err)
		}
	}

	cmd.Println(reply)

	if askShowMeta {
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal meta: %w", err)
		}
		cmd.Println(string(data))
	}
	return nil
}
