package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 8, cfg.MaxSteps)
	assert.Equal(t, 5*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "127.0.0.1:8001", cfg.DataAPIAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FLEETAGENT_PROVIDER", "openai")
	t.Setenv("FLEETAGENT_MAX_STEPS", "4")
	t.Setenv("FLEETAGENT_TOOL_TIMEOUT", "2s")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 4, cfg.MaxSteps)
	assert.Equal(t, 2*time.Second, cfg.ToolTimeout)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadYAMLOverridesEnvironment(t *testing.T) {
	t.Setenv("FLEETAGENT_PROVIDER", "openai")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: anthropic\nmax_steps: 6\nserver: sse://http://localhost:9000/sse\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, 6, cfg.MaxSteps)
	assert.Equal(t, "sse://http://localhost:9000/sse", cfg.ServerSpec)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
}

func TestLoadBadValues(t *testing.T) {
	t.Setenv("FLEETAGENT_MAX_STEPS", "many")
	_, err := Load("")
	assert.Error(t, err)
}
