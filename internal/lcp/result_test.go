package lcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_ElementOnly(t *testing.T) {
	res := Assemble(imageCandidate(), nil, ReasonMissingSimulationNode)

	assert.True(t, res.LcpElementFound)
	assert.False(t, res.NotApplicable)
	assert.Len(t, res.Elements, 1)
	assert.Nil(t, res.Phases)
	assert.Equal(t, ReasonMissingSimulationNode, res.Reason)
}

func TestAssemble_CopiesBreakdown(t *testing.T) {
	b, err := Decompose(observedInputs(900, 1400, 1600))
	require.NoError(t, err)

	res := Assemble(imageCandidate(), &b, ReasonNone)
	b.Entries[0].DurationMs = -1

	require.NotNil(t, res.Phases)
	assert.Equal(t, 250.0, res.Phases.Duration(PhaseTTFB))
}

func TestResult_JSONShape(t *testing.T) {
	b, err := Decompose(observedInputs(900, 1400, 1600))
	require.NoError(t, err)
	res := Assemble(imageCandidate(), &b, ReasonNone)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, true, out["lcp_element_found"])
	assert.Contains(t, out, "phase_breakdown")
	assert.NotContains(t, out, "reason")

	entries := out["phase_breakdown"].(map[string]interface{})["entries"].([]interface{})
	require.Len(t, entries, 4)
	assert.Equal(t, "ttfb", entries[0].(map[string]interface{})["phase"])
	assert.Equal(t, "render_delay", entries[3].(map[string]interface{})["phase"])
}

func TestResult_NotApplicableJSONHasEmptyElements(t *testing.T) {
	data, err := json.Marshal(Assemble(nil, nil, ReasonNone))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"elements":[]`)
	assert.Contains(t, string(data), `"reason":"no_candidate"`)
}
