package lcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

func TestLoadTimestamps_SimulatedIgnoresObservedFields(t *testing.T) {
	hero := heroRecord()
	metric := scenarioA().metric

	start, end, err := LoadTimestamps(SourceFor(metric, hero), hero, testNav)
	require.NoError(t, err)
	assert.InDelta(t, 1300, start, 1e-9)
	assert.InDelta(t, 1500, end, 1e-9)
	assert.NotEqual(t, hero.NetworkEndTime, end)
}

func TestLoadTimestamps_ObservedIgnoresSimulation(t *testing.T) {
	hero := heroRecord()
	src := SourceFor(trace.MetricResult{Timing: 650}, hero)
	require.IsType(t, Observed{}, src)

	start, end, err := LoadTimestamps(src, hero, trace.NavigationTimestamps{TimeOrigin: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1300.0, start)
	assert.Equal(t, 1450.0, end)
}

func TestLoadTimestamps_SimulatedSkipsNonNetworkNodes(t *testing.T) {
	hero := heroRecord()
	src := Simulated{NodeTimings: []trace.NodeTiming{
		// A CPU node carrying a record must never match.
		{Node: trace.SimulationNode{Type: trace.NodeTypeCPU, Record: &hero}, StartTime: 0.1, EndTime: 0.2},
	}}

	_, _, err := LoadTimestamps(src, hero, testNav)
	assert.True(t, errors.Is(err, ErrMissingSimulationNode))
}
