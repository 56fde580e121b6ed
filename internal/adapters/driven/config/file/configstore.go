package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the on-disk configuration shape. Zero values mean "not
// set": the caller overlays them onto its defaults, so a sparse file is
// fine.
type Settings struct {
	SourceDir string `toml:"source_dir,omitempty"`
	DataDir   string `toml:"data_dir,omitempty"`

	Weighting struct {
		Mode          string  `toml:"mode,omitempty"`
		DepthAlpha    float64 `toml:"depth_alpha,omitempty"`
		DecayEnabled  bool    `toml:"decay_enabled,omitempty"`
		DecayWindow   float64 `toml:"decay_window_days,omitempty"`
		DecayHalfLife float64 `toml:"decay_half_life_days,omitempty"`
		DecayFloor    float64 `toml:"decay_floor,omitempty"`
	} `toml:"weighting,omitempty"`

	Routing struct {
		Low     float64 `toml:"low,omitempty"`
		High    float64 `toml:"high,omitempty"`
		MinHits int     `toml:"min_hits,omitempty"`
	} `toml:"routing,omitempty"`

	LLM struct {
		Provider string `toml:"provider,omitempty"`
		Model    string `toml:"model,omitempty"`
		BaseURL  string `toml:"base_url,omitempty"`
	} `toml:"llm,omitempty"`
}

// ConfigStore reads and writes the TOML settings file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML settings store. If configDir is empty,
// defaults to ~/.secondbrain.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".secondbrain")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load parses the settings file. A missing file yields zero Settings
// and no error.
func (s *ConfigStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var settings Settings
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings: %w", err)
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

// Save writes the settings file.
func (s *ConfigStore) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the settings file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
