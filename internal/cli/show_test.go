package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_RequiresID(t *testing.T) {
	cmd := &ShowCommand{globals: &GlobalFlags{}}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestShow_NotFound(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &ShowCommand{ID: "LCP-missing", globals: &GlobalFlags{}, store: store}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestShow_RecordedAnalysis(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := runAnalyze(t, &AnalyzeCommand{Bundles: []string{simulatedBundle}}, store)
	require.NoError(t, err)

	runs := listAll(t, store)
	require.Len(t, runs, 1)

	cmd := &ShowCommand{ID: runs[0].ID, globals: &GlobalFlags{}, store: store}
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	assert.Contains(t, output, runs[0].ID)
	assert.Contains(t, output, "URL:           https://example.com/")
	assert.Contains(t, output, "Trace:         scenario-a (simulate)")
	assert.Contains(t, output, "LCP element:   body > img.hero")
	assert.Contains(t, output, "Label:         Hero image")
	assert.Contains(t, output, "Size:          800x400 at (0, 0)")
	assert.Contains(t, output, "Render Delay")
	assert.Contains(t, output, "28.6%")
}

func TestShow_JSONIncludesResult(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := runAnalyze(t, &AnalyzeCommand{Bundles: []string{textBundle}}, store)
	require.NoError(t, err)
	runs := listAll(t, store)
	require.Len(t, runs, 1)

	cmd := &ShowCommand{ID: runs[0].ID, globals: &GlobalFlags{JSON: true}, store: store}
	output := captureOutput(t, func() { err = cmd.Execute(nil) })
	require.NoError(t, err)

	var got runJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, runs[0].ID, got.ID)
	assert.Equal(t, "scenario-c", got.Identity)
	assert.Nil(t, got.Phases)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(got.Result, &result))
	assert.Equal(t, true, result["lcp_element_found"])
	assert.Equal(t, "no_matching_network_record", result["reason"])
	assert.NotContains(t, result, "phase_breakdown")
}
