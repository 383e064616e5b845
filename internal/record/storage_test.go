package record

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcto/mcp-probe/internal/harness"
)

func sampleOutcomes() []harness.Outcome {
	return []harness.Outcome{
		{Step: harness.StepInitialize, Status: harness.StatusSuccess, Detail: json.RawMessage(`{"protocolVersion":"2024-11-05"}`), Duration: 12 * time.Millisecond},
		{Step: harness.StepListTools, Status: harness.StatusSuccess, Detail: json.RawMessage(`{"tools":[]}`)},
		{Step: harness.StepSearch, Status: harness.StatusFailed, Kind: harness.KindTransport, Err: "http status 500: boom"},
		{Step: harness.StepChainedFetch, Status: harness.StatusSkipped, Err: "search step did not succeed"},
		{Step: harness.StepFixedFetch, Status: harness.StatusSuccess, Detail: json.RawMessage(`{"content":[]}`)},
	}
}

func newStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := NewRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndGetRun(t *testing.T) {
	store := newStore(t)

	started := time.Now().Add(-time.Second)
	runID, err := store.SaveRun("http://localhost:8788", sampleOutcomes(), started, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	records, err := store.GetRun(runID)
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, harness.StepInitialize, records[0].Step)
	assert.Equal(t, "success", records[0].Status)
	assert.Equal(t, int64(12), records[0].DurationMS)

	assert.Equal(t, "failed", records[2].Status)
	assert.Equal(t, harness.KindTransport, records[2].ErrorKind)
	assert.Contains(t, records[2].Error, "500")

	assert.Equal(t, "skipped", records[3].Status)

	for i, rec := range records {
		assert.Equal(t, i+1, rec.Seq, "outcomes keep scenario order")
	}
}

func TestGetRecentRuns(t *testing.T) {
	store := newStore(t)

	for i := 0; i < 3; i++ {
		started := time.Now().Add(time.Duration(i) * time.Minute)
		_, err := store.SaveRun("http://localhost:8788", sampleOutcomes(), started, started.Add(time.Second))
		require.NoError(t, err)
	}

	runs, err := store.GetRecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.False(t, runs[0].OK, "a run with a failed step is not ok")
	assert.True(t, runs[0].Started.After(runs[1].Started) || runs[0].Started.Equal(runs[1].Started))
}

func TestGetStats(t *testing.T) {
	store := newStore(t)

	_, err := store.SaveRun("http://localhost:8788", sampleOutcomes(), time.Now(), time.Now())
	require.NoError(t, err)

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["total_runs"])
	assert.Equal(t, int64(0), stats["passing_runs"])

	steps := stats["steps"].(map[string]int64)
	assert.Equal(t, int64(1), steps[harness.StepSearch+"/failed"])
}
