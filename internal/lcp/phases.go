package lcp

import (
	"fmt"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

// Phase names one segment of the LCP timeline.
type Phase string

const (
	PhaseTTFB        Phase = "ttfb"
	PhaseLoadDelay   Phase = "load_delay"
	PhaseLoadTime    Phase = "load_time"
	PhaseRenderDelay Phase = "render_delay"
)

// Phases lists the phases in breakdown order.
var Phases = [4]Phase{PhaseTTFB, PhaseLoadDelay, PhaseLoadTime, PhaseRenderDelay}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseTTFB:
		return "TTFB"
	case PhaseLoadDelay:
		return "Load Delay"
	case PhaseLoadTime:
		return "Load Time"
	case PhaseRenderDelay:
		return "Render Delay"
	}
	return string(p)
}

// PhaseTiming is one row of the breakdown.
type PhaseTiming struct {
	Phase      Phase   `json:"phase"`
	DurationMs float64 `json:"duration_ms"`
}

// PhaseBreakdown is the ordered four-phase decomposition of LCP.
type PhaseBreakdown struct {
	Entries [4]PhaseTiming `json:"entries"`
	// Inconsistent is set when the render delay residual is negative.
	Inconsistent bool `json:"inconsistent,omitempty"`
}

// Total sums the phases in breakdown order.
func (b PhaseBreakdown) Total() float64 {
	var sum float64
	for _, e := range b.Entries {
		sum += e.DurationMs
	}
	return sum
}

// Duration returns the duration of phase p.
func (b PhaseBreakdown) Duration(p Phase) float64 {
	for _, e := range b.Entries {
		if e.Phase == p {
			return e.DurationMs
		}
	}
	return 0
}

// PhaseInputs are the resolved anchors of a decomposition.
type PhaseInputs struct {
	Navigation   trace.NavigationTimestamps
	MainResource trace.NetworkRecord
	Metric       trace.MetricResult
	// Absolute milliseconds; zero means unavailable.
	LoadStart float64
	LoadEnd   float64
}

// Decompose splits the LCP timing into TTFB, load delay, load time and
// render delay. Render delay is the residual, so the four entries always sum
// to Metric.Timing. A negative render delay is returned as-is with
// Inconsistent set.
func Decompose(in PhaseInputs) (PhaseBreakdown, error) {
	if in.LoadStart == 0 || in.LoadEnd == 0 {
		return PhaseBreakdown{}, ErrLoadTimestampsUnavailable
	}

	origin := in.Navigation.TimeOrigin
	firstByte := in.MainResource.ResponseHeadersEndTime*1000 + origin

	ttfb := firstByte - origin
	loadDelay := in.LoadStart - firstByte
	loadTime := in.LoadEnd - in.LoadStart
	renderDelay := in.Metric.Timing - loadTime - loadDelay - ttfb

	for _, p := range []struct {
		phase Phase
		v     float64
	}{{PhaseTTFB, ttfb}, {PhaseLoadDelay, loadDelay}, {PhaseLoadTime, loadTime}} {
		if p.v < 0 {
			return PhaseBreakdown{}, fmt.Errorf("%s is %.3fms: %w", p.phase, p.v, ErrNegativePhase)
		}
	}

	return PhaseBreakdown{
		Entries: [4]PhaseTiming{
			{Phase: PhaseTTFB, DurationMs: ttfb},
			{Phase: PhaseLoadDelay, DurationMs: loadDelay},
			{Phase: PhaseLoadTime, DurationMs: loadTime},
			{Phase: PhaseRenderDelay, DurationMs: renderDelay},
		},
		Inconsistent: renderDelay < 0,
	}, nil
}
