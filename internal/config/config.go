// Package config loads probe settings from the environment, with a
// best-effort .env load first so local runs match the hosted-client script's
// conventions.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for a probe run
type Config struct {
	TargetURL   string        // Base URL of the server under test
	Timeout     time.Duration // Per-request HTTP timeout
	SearchQuery string        // Query for the search tool step
	FetchID     string        // Fixed document id for the final fetch step
	Record      bool          // Persist outcomes to SQLite
	RecordPath  string        // SQLite database path
}

// Load reads configuration from environment variables, applying defaults.
// A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		TargetURL:   getEnvDefault("PROBE_TARGET_URL", "http://localhost:8788"),
		Timeout:     time.Duration(getEnvInt("PROBE_TIMEOUT_S", 30)) * time.Second,
		SearchQuery: getEnvDefault("PROBE_SEARCH_QUERY", "MCP protocol"),
		FetchID:     getEnvDefault("PROBE_FETCH_ID", "mcp-overview"),
		Record:      getEnvBool("PROBE_RECORD", false),
		RecordPath:  getEnvDefault("PROBE_RECORD_PATH", "./probe_runs.db"),
	}
}

// Helper functions for environment variables
func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
