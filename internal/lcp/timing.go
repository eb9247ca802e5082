package lcp

import (
	"fmt"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

// TimingSource is where the LCP resource's load timestamps come from.
// It is either Simulated or Observed; no other implementations exist.
type TimingSource interface {
	timingSource()
}

// Simulated carries the simulator's node timings (relative seconds).
type Simulated struct {
	NodeTimings []trace.NodeTiming
}

// Observed carries the LCP record's own trace timestamps (absolute ms).
type Observed struct {
	Record trace.NetworkRecord
}

func (Simulated) timingSource() {}
func (Observed) timingSource()  {}

// SourceFor picks the timing source matching how the metric was computed.
func SourceFor(metric trace.MetricResult, record trace.NetworkRecord) TimingSource {
	if metric.PessimisticEstimate != nil {
		return Simulated{NodeTimings: metric.PessimisticEstimate.NodeTimings}
	}
	return Observed{Record: record}
}

// LoadTimestamps returns the absolute start and end of the LCP resource
// load in milliseconds.
func LoadTimestamps(src TimingSource, record trace.NetworkRecord, nav trace.NavigationTimestamps) (float64, float64, error) {
	switch s := src.(type) {
	case Simulated:
		for _, nt := range s.NodeTimings {
			if nt.Node.Type != trace.NodeTypeNetwork || nt.Node.Record == nil {
				continue
			}
			if nt.Node.Record.RequestID != record.RequestID {
				continue
			}
			start := nt.StartTime*1000 + nav.TimeOrigin
			end := nt.EndTime*1000 + nav.TimeOrigin
			return start, end, nil
		}
		return 0, 0, fmt.Errorf("request %s: %w", record.RequestID, ErrMissingSimulationNode)
	case Observed:
		return s.Record.NetworkRequestTime, s.Record.NetworkEndTime, nil
	default:
		panic(fmt.Sprintf("lcp: unknown timing source %T", src))
	}
}
