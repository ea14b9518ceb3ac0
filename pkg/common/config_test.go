package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/tmp/rpos-does-not-exist.json")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	data := `{"control": {"http_address": ":9090", "socket_path": "/tmp/custom.sock"}}`
	require.NoError(t, os.WriteFile(configFile, []byte(data), 0644))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Control.HTTPAddress)
	require.Equal(t, "/tmp/custom.sock", cfg.Control.SocketPath)
	// unspecified fields keep their defaults
	require.Equal(t, DefaultHRTPriority, cfg.HRT.Priority)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"control": `), 0644))

	_, err := LoadConfig(configFile)
	require.Error(t, err)
}

func TestSaveConfigThenLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.json")

	cfg := DefaultConfig()
	cfg.Control.HTTPAddress = ":1234"
	require.NoError(t, SaveConfig(cfg, configFile))

	loaded, err := LoadConfig(configFile)
	require.NoError(t, err)
	require.Equal(t, ":1234", loaded.Control.HTTPAddress)
}
