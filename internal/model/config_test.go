package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "relo", cfg.Project)
	assert.Equal(t, 48912, cfg.OAuth.RedirectPort)
	assert.Equal(t, "timeline", cfg.Display.DefaultView)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in, err := LoadConfig(path)
	require.NoError(t, err)
	in.Project = "our-move"
	in.Route = "Lisbon -> Milan"
	in.OfflineAccount = "ru"
	in.Display.DefaultView = "carousel"

	require.NoError(t, SaveConfig(path, in))

	// SaveConfig creates parent directories.
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "our-move", out.Project)
	assert.Equal(t, "Lisbon -> Milan", out.Route)
	assert.Equal(t, "ru", out.OfflineAccount)
	assert.Equal(t, "carousel", out.Display.DefaultView)
	assert.Equal(t, in.DatabasePath, out.DatabasePath)
}
