// Package config loads environment-driven configuration: secrets, data
// locations and the weighting feature flags. A .env file in the working
// directory is honoured when present.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/services"
	"github.com/guavabuy/secondbrain/internal/weighting"
)

type Config struct {
	// SourceDir is the root of the raw document tree to ingest.
	SourceDir string `envconfig:"SOURCE_DIR" default:"data_sources"`

	// DataDir holds the corpus, state files and audit database.
	DataDir string `envconfig:"DATA_DIR" default:"outputs"`

	// Weighting feature flags. Mode "legacy" reproduces pre-depth
	// ranking exactly; "depth" enables the cognitive multiplier when
	// DepthAlpha is nonzero.
	WeightingMode string  `envconfig:"WEIGHTING_MODE" default:"legacy"`
	DepthAlpha    float64 `envconfig:"DEPTH_ALPHA" default:"0"`

	// Recency decay parameters.
	DecayEnabled  bool    `envconfig:"DECAY_ENABLED" default:"false"`
	DecayWindow   float64 `envconfig:"DECAY_WINDOW_DAYS" default:"15"`
	DecayHalfLife float64 `envconfig:"DECAY_HALF_LIFE_DAYS" default:"3"`
	DecayFloor    float64 `envconfig:"DECAY_FLOOR" default:"0.05"`

	// Retrieval bounds.
	TopK    int `envconfig:"RETRIEVE_TOP_K" default:"6"`
	MaxScan int `envconfig:"RETRIEVE_MAX_SCAN" default:"4000"`

	// Routing thresholds.
	LowThreshold  float64 `envconfig:"LOW_TH" default:"0.25"`
	HighThreshold float64 `envconfig:"HIGH_TH" default:"0.55"`
	MinHits       int     `envconfig:"MIN_HITS" default:"3"`

	// LLM provider selection. Empty disables the profile updater and
	// persona; friend mode has no LLM dependency.
	LLMProvider string `envconfig:"LLM_PROVIDER"`
	LLMModel    string `envconfig:"LLM_MODEL"`
	LLMBaseURL  string `envconfig:"LLM_BASE_URL"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	SerpAPIKey   string `envconfig:"SERPAPI_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SB", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSerpAPI() bool {
	return c.SerpAPIKey != ""
}

// Weighting builds the ranking configuration. Out-of-range decay
// parameters fall back to defaults rather than erroring.
func (c *Config) Weighting() services.WeightingConfig {
	decay := weighting.DefaultDecay()
	if c.DecayWindow > 0 {
		decay.WindowDays = c.DecayWindow
	}
	if c.DecayHalfLife > 0 {
		decay.HalfLifeDays = c.DecayHalfLife
	}
	if c.DecayFloor > 0 && c.DecayFloor < 1 {
		decay.Floor = c.DecayFloor
	}

	return services.WeightingConfig{
		Mode:         services.ParseWeightingMode(c.WeightingMode),
		DepthAlpha:   c.DepthAlpha,
		DecayEnabled: c.DecayEnabled,
		Decay:        decay,
	}
}

// Thresholds builds the routing thresholds, falling back to defaults
// for values that make no sense.
func (c *Config) Thresholds() domain.Thresholds {
	th := domain.DefaultThresholds()
	if c.LowThreshold > 0 && c.LowThreshold < 1 {
		th.Low = c.LowThreshold
	}
	if c.HighThreshold > 0 && c.HighThreshold <= 1 {
		th.High = c.HighThreshold
	}
	if c.MinHits > 0 {
		th.MinHits = c.MinHits
	}
	if th.Low > th.High {
		return domain.DefaultThresholds()
	}
	return th
}

// LLMProviderNormalized returns the provider name trimmed and lowered.
func (c *Config) LLMProviderNormalized() string {
	return strings.ToLower(strings.TrimSpace(c.LLMProvider))
}
