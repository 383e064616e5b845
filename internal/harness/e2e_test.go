package harness_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcto/mcp-probe/internal/client"
	"github.com/vcto/mcp-probe/internal/harness"
	"github.com/vcto/mcp-probe/internal/target"
)

// TestScenarioEndToEnd runs the full scripted scenario against the in-process
// reference server over real HTTP and the pseudo-SSE framing.
func TestScenarioEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/sse", target.NewSSEHandler(target.NewServer()))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := client.New(ts.URL, 0)
	defer c.Close()

	r := harness.NewRunner(c, harness.Scenario{
		Query:   "MCP protocol",
		FetchID: "mcp-overview",
	})
	outcomes := r.Run(context.Background())

	require.Len(t, outcomes, 5)
	for _, o := range outcomes {
		assert.Equal(t, harness.StatusSuccess, o.Status,
			"step %q should succeed against the reference server: %s", o.Step, o.Err)
	}
	assert.Equal(t, harness.StateCompleted, r.State())

	// The search result feeds the chained fetch, so both fetch outcomes carry
	// document text.
	assert.NotEmpty(t, outcomes[3].Detail)
	assert.NotEmpty(t, outcomes[4].Detail)
}

// TestScenarioAgainstDeadEndpoint verifies that an unreachable or erroring
// server still yields a complete, fully recorded run.
func TestScenarioAgainstDeadEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such endpoint", http.StatusNotFound)
	}))
	defer ts.Close()

	c := client.New(ts.URL, 0)
	defer c.Close()

	r := harness.NewRunner(c, harness.Scenario{Query: "q", FetchID: "mcp-overview"})
	outcomes := r.Run(context.Background())

	require.Len(t, outcomes, 5)
	assert.Equal(t, harness.StatusFailed, outcomes[0].Status)
	assert.Equal(t, harness.KindTransport, outcomes[0].Kind)
	assert.Equal(t, harness.StatusSkipped, outcomes[3].Status)
	assert.Equal(t, harness.StatusFailed, outcomes[4].Status)
	assert.Equal(t, harness.StateCompleted, r.State())
}
