package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "")
	t.Setenv("SESSION_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "/api/v1", cfg.API.Prefix)
	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.Equal(t, "psb_token", cfg.Session.Key)
	assert.Equal(t, 15*time.Second, cfg.Chat.PollInterval)
	assert.Equal(t, 50, cfg.Chat.Limit)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_BASE_URL", "https://lms.example.com/")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("CHAT_POLL_INTERVAL", "nonsense")
	t.Setenv("CHAT_LIMIT", "500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://lms.example.com", cfg.API.BaseURL)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 15*time.Second, cfg.Chat.PollInterval)
	assert.Equal(t, 50, cfg.Chat.Limit)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/api/v1", normalizePrefix("api/v1/"))
	assert.Equal(t, "", normalizePrefix("  "))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
