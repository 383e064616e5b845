package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PROBE_TARGET_URL", "")
	t.Setenv("PROBE_TIMEOUT_S", "")
	t.Setenv("PROBE_SEARCH_QUERY", "")
	t.Setenv("PROBE_FETCH_ID", "")
	t.Setenv("PROBE_RECORD", "")

	cfg := Load()
	assert.Equal(t, "http://localhost:8788", cfg.TargetURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "MCP protocol", cfg.SearchQuery)
	assert.Equal(t, "mcp-overview", cfg.FetchID)
	assert.False(t, cfg.Record)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PROBE_TARGET_URL", "http://example.test:9000")
	t.Setenv("PROBE_TIMEOUT_S", "5")
	t.Setenv("PROBE_SEARCH_QUERY", "transport")
	t.Setenv("PROBE_FETCH_ID", "mcp-transports")
	t.Setenv("PROBE_RECORD", "1")
	t.Setenv("PROBE_RECORD_PATH", "/tmp/probe.db")

	cfg := Load()
	assert.Equal(t, "http://example.test:9000", cfg.TargetURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "transport", cfg.SearchQuery)
	assert.Equal(t, "mcp-transports", cfg.FetchID)
	assert.True(t, cfg.Record)
	assert.Equal(t, "/tmp/probe.db", cfg.RecordPath)
}

func TestLoadIgnoresMalformedTimeout(t *testing.T) {
	t.Setenv("PROBE_TIMEOUT_S", "soon")
	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
