package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Detector.BinarizeThreshold)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detector:\n  binarize_threshold: 0.35\n"), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.35, cfg.Detector.BinarizeThreshold)
	assert.Equal(t, 0.6, cfg.Detector.MinScore, "unrelated defaults must survive a partial override")
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("RELIEFOCR_LOG_LEVEL", "debug")
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
