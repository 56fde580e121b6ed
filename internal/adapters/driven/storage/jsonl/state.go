package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/core/ports/driven"
)

var (
	_ driven.IngestStateStore = (*IngestStateStore)(nil)
	_ driven.CursorStore      = (*CursorStore)(nil)
	_ driven.ProfileStore     = (*ProfileStore)(nil)
)

// writeFileAtomic replaces path via a temp file and rename, so readers
// never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// IngestStateStore persists the per-file digest map as JSON.
type IngestStateStore struct {
	path string
	mu   sync.Mutex
}

// NewIngestStateStore creates a state store at path.
func NewIngestStateStore(path string) *IngestStateStore {
	return &IngestStateStore{path: path}
}

// Load returns the saved state, or a fresh one when none exists.
func (s *IngestStateStore) Load(ctx context.Context) (*domain.IngestState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewIngestState(), nil
		}
		return nil, fmt.Errorf("reading ingest state: %w", err)
	}

	state := domain.NewIngestState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing ingest state: %w", err)
	}
	if state.Files == nil {
		state.Files = make(map[string]string)
	}
	return state, nil
}

// Save atomically replaces the saved state.
func (s *IngestStateStore) Save(ctx context.Context, state *domain.IngestState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling ingest state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, data)
}

// cursorState is the on-disk shape of the profile cursor.
type cursorState struct {
	LastLine int `json:"last_line"`
}

// CursorStore persists a single line offset into the corpus.
type CursorStore struct {
	path string
	mu   sync.Mutex
}

// NewCursorStore creates a cursor store at path.
func NewCursorStore(path string) *CursorStore {
	return &CursorStore{path: path}
}

// Load returns the saved offset, zero when none exists.
func (s *CursorStore) Load(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cursor: %w", err)
	}

	var state cursorState
	if err := json.Unmarshal(data, &state); err != nil {
		return 0, fmt.Errorf("parsing cursor: %w", err)
	}
	if state.LastLine < 0 {
		return 0, nil
	}
	return state.LastLine, nil
}

// Save atomically replaces the saved offset.
func (s *CursorStore) Save(ctx context.Context, offset int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if offset < 0 {
		offset = 0
	}

	data, err := json.MarshalIndent(cursorState{LastLine: offset}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cursor: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, data)
}

// ProfileStore persists the profile Markdown document.
type ProfileStore struct {
	path string
	mu   sync.Mutex
}

// NewProfileStore creates a profile store at path.
func NewProfileStore(path string) *ProfileStore {
	return &ProfileStore{path: path}
}

// Load returns the profile text, empty when none exists.
func (s *ProfileStore) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading profile: %w", err)
	}
	return string(data), nil
}

// Save atomically replaces the profile text.
func (s *ProfileStore) Save(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path, []byte(text))
}
