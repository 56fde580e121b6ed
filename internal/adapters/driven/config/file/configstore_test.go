package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Settings{}, settings)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var settings Settings
	settings.SourceDir = "data_sources"
	settings.Weighting.Mode = "depth"
	settings.Weighting.DepthAlpha = 0.6
	settings.Routing.MinHits = 2
	settings.LLM.Provider = "ollama"

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	content := "[weighting]\nmode = \"depth\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "depth", settings.Weighting.Mode)
	assert.Empty(t, settings.SourceDir)
	assert.Zero(t, settings.Routing.MinHits)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml ["), 0o600))

	_, err = store.Load()
	assert.Error(t, err)
}
