package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "meetings.json", cfg.StorePath)
	assert.Equal(t, "mock", cfg.ModelProvider)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CALLCLERK_ADDR", ":9090")
	t.Setenv("CALLCLERK_STORE_DRIVER", "SQLite")
	t.Setenv("CALLCLERK_STORE_PATH", "/tmp/meetings.db")
	t.Setenv("CALLCLERK_MODEL_PROVIDER", "openai")
	t.Setenv("CALLCLERK_MODEL_NAME", "gpt-4o")
	t.Setenv("CALLCLERK_SESSION_IDLE_TIMEOUT", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/meetings.db", cfg.StorePath)
	assert.Equal(t, "openai", cfg.ModelProvider)
	assert.Equal(t, "gpt-4o", cfg.ModelName)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
}

func TestLoad_Rejections(t *testing.T) {
	t.Run("bad store driver", func(t *testing.T) {
		t.Setenv("CALLCLERK_STORE_DRIVER", "redis")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown store driver")
	})

	t.Run("bad model provider", func(t *testing.T) {
		t.Setenv("CALLCLERK_MODEL_PROVIDER", "llama")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown model provider")
	})

	t.Run("bad idle timeout", func(t *testing.T) {
		t.Setenv("CALLCLERK_SESSION_IDLE_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "CALLCLERK_SESSION_IDLE_TIMEOUT")
	})
}
