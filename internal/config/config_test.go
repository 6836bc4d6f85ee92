package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 220, cfg.ChunkSize)
	assert.Equal(t, 40, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 3, cfg.ChallengeCount)
	assert.Equal(t, 150, cfg.SummaryMaxWords)
	assert.Greater(t, cfg.MinScore, 0.0)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("TOP_K", "7")
	t.Setenv("MIN_SCORE", "0.5")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, 0.5, cfg.MinScore)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoad_YAMLFileWithEnvOnTop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top_k: 9\nchunk_size: 500\n"), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("TOP_K", "2")

	cfg, err := Load()
	require.NoError(t, err)
	// env wins over file, file wins over defaults
	assert.Equal(t, 2, cfg.TopK)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 40, cfg.ChunkOverlap)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n -bad"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
