// Package config loads runtime configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the callclerk server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// StoreDriver selects the meeting store backend: file, sqlite or memory.
	StoreDriver string

	// StorePath is the meeting store location for the file and sqlite drivers.
	StorePath string

	// ModelProvider selects the language model backend: openai, anthropic or mock.
	ModelProvider string

	// ModelName overrides the provider's default model id when set.
	ModelName string

	// Timezone is the reference timezone for all booking rules.
	Timezone string

	// SessionIdleTimeout is how long a silent call session is kept.
	SessionIdleTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is json or text.
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:               envOr("CALLCLERK_ADDR", ":8080"),
		StoreDriver:        strings.ToLower(envOr("CALLCLERK_STORE_DRIVER", "file")),
		StorePath:          envOr("CALLCLERK_STORE_PATH", "meetings.json"),
		ModelProvider:      strings.ToLower(envOr("CALLCLERK_MODEL_PROVIDER", "mock")),
		ModelName:          os.Getenv("CALLCLERK_MODEL_NAME"),
		Timezone:           envOr("CALLCLERK_TIMEZONE", "UTC"),
		SessionIdleTimeout: 30 * time.Minute,
		LogLevel:           strings.ToLower(envOr("CALLCLERK_LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(envOr("CALLCLERK_LOG_FORMAT", "json")),
	}

	if raw := os.Getenv("CALLCLERK_SESSION_IDLE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CALLCLERK_SESSION_IDLE_TIMEOUT %q: %w", raw, err)
		}
		cfg.SessionIdleTimeout = d
	}

	switch cfg.StoreDriver {
	case "file", "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	switch cfg.ModelProvider {
	case "openai", "anthropic", "mock":
	default:
		return Config{}, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
