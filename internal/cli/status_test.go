package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_EmptyDB(t *testing.T) {
	store, db := openTestStore(t)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, db, ":memory:") })
	require.NoError(t, err)

	assert.Contains(t, output, "LCP Breakdown Status")
	assert.Contains(t, output, "Version:       dev")
	assert.Contains(t, output, "Runs:          0")
	assert.Contains(t, output, "Retention:     90 days")
	assert.NotContains(t, output, "Average Phases")
	assert.NotContains(t, output, "Top Domains")
}

func TestStatus_WithRuns(t *testing.T) {
	store, db := openTestStore(t)
	seedRuns(t, store)

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, db, ":memory:") })
	require.NoError(t, err)

	assert.Contains(t, output, "Runs:          3")
	assert.Contains(t, output, "With phases:   2 (66.7%)")
	assert.Contains(t, output, "Inconsistent:  1")
	assert.Contains(t, output, "Average Phases:")
	assert.Contains(t, output, "400 ms")
	assert.Contains(t, output, "shop.example.com")
}

func TestStatus_HistoryDisabled(t *testing.T) {
	store, db := openTestStore(t)
	cfg := testConfig()
	cfg.History.Enabled = false

	cmd := &StatusCommand{globals: &GlobalFlags{}, version: "dev"}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(cfg, store, db, ":memory:") })
	require.NoError(t, err)
	assert.Contains(t, output, "History:       disabled")
}

func TestStatus_JSON(t *testing.T) {
	store, db := openTestStore(t)
	seedRuns(t, store)

	cmd := &StatusCommand{globals: &GlobalFlags{JSON: true}, version: "1.0.0"}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, db, ":memory:") })
	require.NoError(t, err)

	var got statusJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "1.0.0", got.Version)
	assert.Equal(t, int64(3), got.TotalRuns)
	assert.Equal(t, int64(2), got.RunsWithPhases)
	assert.Equal(t, int64(1), got.InconsistentRuns)
	assert.Greater(t, got.DatabaseSizeBytes, int64(0))
	assert.NotEmpty(t, got.OldestRun)
	require.NotNil(t, got.AveragePhases)
	assert.InDelta(t, 400, got.AveragePhases.TTFB, 1e-9)
	assert.InDelta(t, 100, got.AveragePhases.RenderDelay, 1e-9)
	require.Len(t, got.TopDomains, 2)
	assert.Equal(t, domainCountJSON{Domain: "shop.example.com", Count: 2}, got.TopDomains[0])
}
