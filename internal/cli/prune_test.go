package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

func seedAgedRuns(t *testing.T, store storage.Store, now time.Time) {
	t.Helper()
	for _, age := range []time.Duration{24 * time.Hour, 100 * 24 * time.Hour, 200 * 24 * time.Hour} {
		require.NoError(t, store.AddRun(context.Background(), &storage.Run{
			URL:       "https://example.com/",
			Timestamp: now.Add(-age),
		}))
	}
}

func TestPrune_DefaultRetention(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Now()
	seedAgedRuns(t, store, now)

	cmd := &PruneCommand{globals: &GlobalFlags{}}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, now) })
	require.NoError(t, err)

	assert.Contains(t, output, "Pruned 2 runs older than 90 days.")
	assert.Len(t, listAll(t, store), 1)
}

func TestPrune_DryRunKeepsRuns(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Now()
	seedAgedRuns(t, store, now)

	cmd := &PruneCommand{globals: &GlobalFlags{}, OlderThan: "2d", DryRun: true}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, now) })
	require.NoError(t, err)

	assert.Contains(t, output, "Would prune 2 runs older than 2 days.")
	assert.Len(t, listAll(t, store), 3)
}

func TestPrune_OlderThanOverride(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Now()
	seedAgedRuns(t, store, now)

	cmd := &PruneCommand{globals: &GlobalFlags{JSON: true}, OlderThan: "150d"}
	var err error
	output := captureOutput(t, func() { err = cmd.executeWithStore(testConfig(), store, now) })
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, false, got["dry_run"])
	assert.Equal(t, float64(1), got["count"])
	assert.Equal(t, "150 days", got["older_than"])
	assert.Len(t, listAll(t, store), 2)
}

func TestPrune_InvalidOlderThan(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &PruneCommand{globals: &GlobalFlags{}, OlderThan: "forever"}
	err := cmd.executeWithStore(testConfig(), store, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestPrune_ZeroRetention(t *testing.T) {
	store, _ := openTestStore(t)
	cfg := testConfig()
	cfg.History.RetentionDays = 0

	cmd := &PruneCommand{globals: &GlobalFlags{}}
	err := cmd.executeWithStore(cfg, store, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retention must be positive")
}
