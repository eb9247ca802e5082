package computed

import (
	"context"

	"github.com/runnerr0/lcpbreakdown/internal/lcp"
	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

const (
	KindTrace          = "trace"
	KindNetworkRecords = "network_records"
	KindNavigation     = "processed_navigation"
	KindLcpMetric      = "lcp_metric"
	KindMainResource   = "main_resource"
)

// Inputs wraps an lcp.Inputs so every artifact goes through the cache.
type Inputs struct {
	cache    *Cache
	source   lcp.Inputs
	identity string
	settings string
}

var _ lcp.Inputs = (*Inputs)(nil)

// Wrap returns cached Inputs for source. identity names the trace the source
// serves; settings names the configuration its artifacts depend on.
func (c *Cache) Wrap(source lcp.Inputs, identity, settings string) *Inputs {
	return &Inputs{cache: c, source: source, identity: identity, settings: settings}
}

func (in *Inputs) key(kind string) Key {
	return Key{Kind: kind, Identity: in.identity, Settings: in.settings}
}

func (in *Inputs) Trace(ctx context.Context) (trace.Trace, error) {
	return Request(ctx, in.cache, in.key(KindTrace), in.source.Trace)
}

func (in *Inputs) NetworkRecords(ctx context.Context) ([]trace.NetworkRecord, error) {
	return Request(ctx, in.cache, in.key(KindNetworkRecords), in.source.NetworkRecords)
}

func (in *Inputs) ProcessedNavigation(ctx context.Context) (trace.NavigationTimestamps, error) {
	return Request(ctx, in.cache, in.key(KindNavigation), in.source.ProcessedNavigation)
}

func (in *Inputs) LcpMetric(ctx context.Context) (trace.MetricResult, error) {
	return Request(ctx, in.cache, in.key(KindLcpMetric), in.source.LcpMetric)
}

func (in *Inputs) MainResource(ctx context.Context) (trace.NetworkRecord, error) {
	return Request(ctx, in.cache, in.key(KindMainResource), in.source.MainResource)
}
