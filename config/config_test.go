package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.AgentTimeout)
	assert.Equal(t, "en", cfg.Pipeline.DefaultLanguage)
	assert.Equal(t, -0.65, cfg.Escalation.SentimentThreshold)
	assert.Equal(t, []string{"anger", "distress"}, cfg.Escalation.TriggerEmotions)
	assert.Equal(t, 2, cfg.Escalation.ConsecutiveEmotionTurn)
	assert.Equal(t, 3, cfg.Escalation.MaxUnresolvedTurns)
	assert.Equal(t, 100, cfg.RateLimit.Ceiling)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_ExplicitMissingFileIsAnError(t *testing.T) {
	// A named file that does not exist is a hard error; only search-path
	// misses fall back to defaults.
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  addr: ":9090"
rate_limit:
  ceiling: 10
  window: 30s
store:
  backend: libsql
  libsql_path: /tmp/test.db
escalation:
  sentiment_threshold: -0.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.RateLimit.Ceiling)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "libsql", cfg.Store.Backend)
	assert.Equal(t, "/tmp/test.db", cfg.Store.LibSQLPath)
	assert.Equal(t, -0.5, cfg.Escalation.SentimentThreshold)

	// Untouched sections keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Pipeline.AgentTimeout)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600))

	t.Setenv("CAREMESH_RATE_LIMIT_CEILING", "7")
	t.Setenv("CAREMESH_STORE_BACKEND", "dynamodb")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.RateLimit.Ceiling)
	assert.Equal(t, "dynamodb", cfg.Store.Backend)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  backend: cassandra\n"), 0o600))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown store backend")

	path2 := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path2, []byte("rate_limit:\n  ceiling: -1\n"), 0o600))

	_, err = LoadConfig(path2)
	assert.ErrorContains(t, err, "rate_limit.ceiling")
}
