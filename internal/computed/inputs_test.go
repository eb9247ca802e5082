package computed

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/lcpbreakdown/internal/lcp"
	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

type countingInputs struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingInputs) hit(kind string) {
	c.mu.Lock()
	c.calls[kind]++
	c.mu.Unlock()
}

func (c *countingInputs) Trace(context.Context) (trace.Trace, error) {
	c.hit(KindTrace)
	return trace.Trace{Candidate: &trace.LcpCandidate{
		Node:  trace.NodeRef{Selector: "h1"},
		Paint: trace.PaintEvent{Type: trace.PaintText, Timestamp: 1500},
	}}, nil
}

func (c *countingInputs) NetworkRecords(context.Context) ([]trace.NetworkRecord, error) {
	c.hit(KindNetworkRecords)
	return []trace.NetworkRecord{{RequestID: "1", Finished: true}}, nil
}

func (c *countingInputs) ProcessedNavigation(context.Context) (trace.NavigationTimestamps, error) {
	c.hit(KindNavigation)
	return trace.NavigationTimestamps{TimeOrigin: 1000}, nil
}

func (c *countingInputs) LcpMetric(context.Context) (trace.MetricResult, error) {
	c.hit(KindLcpMetric)
	return trace.MetricResult{Timing: 500}, nil
}

func (c *countingInputs) MainResource(context.Context) (trace.NetworkRecord, error) {
	c.hit(KindMainResource)
	return trace.NetworkRecord{RequestID: "1"}, nil
}

func TestWrap_AuditTwiceComputesOnce(t *testing.T) {
	c := newTestCache(t, 16)
	src := &countingInputs{calls: map[string]int{}}
	in := c.Wrap(src, "bundle-1", "default")

	auditor := lcp.NewAuditor(nil, nil)
	first, err := auditor.Run(context.Background(), in)
	require.NoError(t, err)
	second, err := auditor.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls[KindTrace])
	assert.Equal(t, 1, src.calls[KindNetworkRecords])
	assert.Equal(t, 1, src.calls[KindNavigation])
}

func TestWrap_DistinctIdentities(t *testing.T) {
	c := newTestCache(t, 16)
	src := &countingInputs{calls: map[string]int{}}

	_, err := c.Wrap(src, "a", "default").LcpMetric(context.Background())
	require.NoError(t, err)
	_, err = c.Wrap(src, "b", "default").LcpMetric(context.Background())
	require.NoError(t, err)
	_, err = c.Wrap(src, "a", "default").LcpMetric(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls[KindLcpMetric])
}
