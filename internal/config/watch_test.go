package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	cfg := Default()
	cfg.Logging.Level = "info"
	require.NoError(t, cfg.SaveToPath(path))

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, "info", w.Current().Logging.Level)

	updated := Default()
	updated.Logging.Level = "debug"
	require.NoError(t, updated.SaveToPath(path))

	select {
	case c := <-reloaded:
		require.Equal(t, "debug", c.Logging.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatchMissingFileIsCreated(t *testing.T) {
	// Watch creates the file via LoadFromPath's default-write path, so this
	// exercises the directory-creation branch rather than a hard failure.
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "config.yaml")

	w, err := Watch(path, nil)
	require.NoError(t, err)
	defer w.Close()

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}
