package lcp

import "github.com/runnerr0/lcpbreakdown/internal/trace"

// Result is what the audit hands to presentation.
type Result struct {
	LcpElementFound bool `json:"lcp_element_found"`
	NotApplicable   bool `json:"not_applicable"`
	// Elements has one row when an LCP element was found, none otherwise.
	Elements []trace.NodeRef `json:"elements"`
	Phases   *PhaseBreakdown `json:"phase_breakdown,omitempty"`
	// LcpTimingMs is the total the phases add up to.
	LcpTimingMs float64 `json:"lcp_timing_ms,omitempty"`
	Reason      Reason  `json:"reason,omitempty"`
}

// Element returns the LCP element, or nil.
func (r Result) Element() *trace.NodeRef {
	if len(r.Elements) == 0 {
		return nil
	}
	e := r.Elements[0]
	return &e
}

// Assemble builds the result from the candidate and an optional breakdown.
// It never fails: missing pieces shrink the result.
func Assemble(candidate *trace.LcpCandidate, phases *PhaseBreakdown, reason Reason) Result {
	if candidate == nil {
		return Result{
			NotApplicable: true,
			Elements:      []trace.NodeRef{},
			Reason:        ReasonNoCandidate,
		}
	}

	res := Result{
		LcpElementFound: true,
		Elements:        []trace.NodeRef{candidate.Node},
		Reason:          reason,
	}
	if phases != nil {
		p := *phases
		res.Phases = &p
		if p.Inconsistent && reason == ReasonNone {
			res.Reason = ReasonInconsistentTiming
		}
	}
	return res
}
