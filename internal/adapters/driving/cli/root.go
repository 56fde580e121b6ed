// Package cli wires the core services to cobra commands.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/guavabuy/secondbrain/internal/adapters/driven/ai"
	"github.com/guavabuy/secondbrain/internal/adapters/driven/config/file"
	"github.com/guavabuy/secondbrain/internal/adapters/driven/storage/jsonl"
	"github.com/guavabuy/secondbrain/internal/adapters/driven/storage/sqlite"
	"github.com/guavabuy/secondbrain/internal/adapters/driven/websearch/serpapi"
	"github.com/guavabuy/secondbrain/internal/config"
	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
	"github.com/guavabuy/secondbrain/internal/core/ports/driving"
	"github.com/guavabuy/secondbrain/internal/core/services"
	"github.com/guavabuy/secondbrain/internal/logger"
)

var version = "dev"

var verbose bool

// Services the commands call. Populated by initServices in normal runs
// and by test helpers in tests.
var (
	appConfig *config.Config

	ingestService   driving.Ingestor
	retrieveService driving.Retriever
	friendService   driving.FriendReplier
	profileService  driving.ProfileUpdater
	personaService  *services.PersonaService
	digestService   *services.DigestService

	auditStore driven.AuditStore
	sessions   = services.NewSessionManager()

	llmSettings     ai.Settings
	routeThresholds = domain.DefaultThresholds()
)

var rootCmd = &cobra.Command{
	Use:   "secondbrain",
	Short: "Personal corpus ingestion, retrieval and friend-mode replies",
	Long: `secondbrain ingests your notes, posts and logs into a weighted
corpus, retrieves against it with depth and recency weighting, and
composes template-driven replies that admit what the corpus does not
know.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires the services from configuration and runs the root
// command.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	defer closeServices()
	return rootCmd.Execute()
}

func initServices() error {
	cfg := config.MustLoad()

	store, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	applySettings(cfg, settings)
	appConfig = cfg
	routeThresholds = cfg.Thresholds()

	corpus, err := jsonl.NewCorpusStore(filepath.Join(cfg.DataDir, "corpus.jsonl"))
	if err != nil {
		return fmt.Errorf("open corpus: %w", err)
	}
	ingestState := jsonl.NewIngestStateStore(filepath.Join(cfg.DataDir, "state", "ingest_state.json"))
	profileCursor := jsonl.NewCursorStore(filepath.Join(cfg.DataDir, "state", "profile_state.json"))
	profileStore := jsonl.NewProfileStore(filepath.Join(cfg.DataDir, "user_profile.md"))

	audit, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	auditStore = audit

	var searcher driven.WebSearcher
	if cfg.HasSerpAPI() {
		searcher = serpapi.NewClient(cfg.SerpAPIKey)
	}

	llmSettings = ai.Settings{
		Provider: cfg.LLMProviderNormalized(),
		APIKey:   cfg.OpenAIAPIKey,
		BaseURL:  cfg.LLMBaseURL,
		Model:    cfg.LLMModel,
	}
	llm, err := ai.CreateLLMService(llmSettings)
	if err != nil {
		return fmt.Errorf("configure LLM: %w", err)
	}

	ingestService = services.NewIngestService(cfg.SourceDir, corpus, ingestState, nil)
	retrieveService = services.NewRetrievalService(corpus, cfg.Weighting())
	friendService = services.NewFriendService(searcher)
	digestService = services.NewDigestService(corpus)
	profileService = services.NewProfileService(corpus, profileCursor, profileStore, llm)
	personaService = services.NewPersonaService(profileStore, digestService, llm)

	return nil
}

// applySettings overlays non-zero values from the settings file onto
// the environment-derived config. Environment variables stay in the
// struct only where the file is silent.
func applySettings(cfg *config.Config, s file.Settings) {
	if s.SourceDir != "" {
		cfg.SourceDir = s.SourceDir
	}
	if s.DataDir != "" {
		cfg.DataDir = s.DataDir
	}
	if s.Weighting.Mode != "" {
		cfg.WeightingMode = s.Weighting.Mode
	}
	if s.Weighting.DepthAlpha != 0 {
		cfg.DepthAlpha = s.Weighting.DepthAlpha
	}
	if s.Weighting.DecayEnabled {
		cfg.DecayEnabled = true
	}
	if s.Weighting.DecayWindow > 0 {
		cfg.DecayWindow = s.Weighting.DecayWindow
	}
	if s.Weighting.DecayHalfLife > 0 {
		cfg.DecayHalfLife = s.Weighting.DecayHalfLife
	}
	if s.Weighting.DecayFloor > 0 {
		cfg.DecayFloor = s.Weighting.DecayFloor
	}
	if s.Routing.Low > 0 {
		cfg.LowThreshold = s.Routing.Low
	}
	if s.Routing.High > 0 {
		cfg.HighThreshold = s.Routing.High
	}
	if s.Routing.MinHits > 0 {
		cfg.MinHits = s.Routing.MinHits
	}
	if s.LLM.Provider != "" {
		cfg.LLMProvider = s.LLM.Provider
	}
	if s.LLM.Model != "" {
		cfg.LLMModel = s.LLM.Model
	}
	if s.LLM.BaseURL != "" {
		cfg.LLMBaseURL = s.LLM.BaseURL
	}
}

// validateLLM checks the configured provider is reachable before a
// command that cannot run without it does any work. Commands that never
// touch the LLM skip the network round trip entirely.
func validateLLM() error {
	if !llmSettings.IsConfigured() {
		return fmt.Errorf("%w: set SB_LLM_PROVIDER to openai or ollama", domain.ErrLLMUnavailable)
	}
	if _, err := ai.CreateAndValidateLLMService(llmSettings); err != nil {
		return err
	}
	return nil
}

func closeServices() {
	if auditStore != nil {
		_ = auditStore.Close()
	}
}
