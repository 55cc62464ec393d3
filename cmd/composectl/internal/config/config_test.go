package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-compose/compose/cmd/composectl/internal/config"
)

func TestLoadOptional_MissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := config.LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, cfg.Replay.MaxPasses)
}

func TestLoadOptional_ReadsReplaySettings(t *testing.T) {
	dir := t.TempDir()
	doc := "replay:\n  maxPasses: 25\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compose.yaml"), []byte(doc), 0o644))

	cfg, err := config.LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Replay.MaxPasses)
}

func TestLoadOptional_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compose.yaml"), []byte("replay: [unclosed\n"), 0o644))

	_, err := config.LoadOptional(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse compose.yaml")
}
