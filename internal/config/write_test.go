// internal/config/write_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flixcase", "config.toml")

	require.NoError(t, WriteDefault(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[library]")
	assert.Contains(t, string(content), "[encoder]")
	assert.Contains(t, string(content), "${FLIXCASE_LIBRARY:-./library}")
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0644))

	err := WriteDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	content, _ := os.ReadFile(path)
	assert.Equal(t, "mine", string(content))
}

func TestWriteDefault_Loads(t *testing.T) {
	t.Setenv("FLIXCASE_LIBRARY", "")
	path := filepath.Join(t.TempDir(), "nested", "deep", "config.toml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "library"), cfg.Library.Root)
	assert.Equal(t, 8485, cfg.Server.Port)
	assert.Equal(t, "balanced", cfg.Encoder.DefaultPreset)
}

func TestConfig_Write(t *testing.T) {
	cfg := Default()
	cfg.Library.Root = "/media/library"
	cfg.Server.Port = 9000

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/media/library", loaded.Library.Root)
	assert.Equal(t, 9000, loaded.Server.Port)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}
