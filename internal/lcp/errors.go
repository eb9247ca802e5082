package lcp

import "errors"

// Reason records why a result carries less than a full breakdown.
type Reason string

const (
	ReasonNone                      Reason = ""
	ReasonNoCandidate               Reason = "no_candidate"
	ReasonNoMatchingNetworkRecord   Reason = "no_matching_network_record"
	ReasonMissingSimulationNode     Reason = "missing_simulation_node"
	ReasonMissingMainResource       Reason = "missing_main_resource"
	ReasonLoadTimestampsUnavailable Reason = "load_timestamps_unavailable"
	ReasonMissingPhaseData          Reason = "missing_phase_data"
	ReasonInconsistentTiming        Reason = "inconsistent_timing"
)

var (
	// ErrMissingSimulationNode means a simulated estimate exists but none of
	// its network nodes belongs to the LCP request.
	ErrMissingSimulationNode = errors.New("no simulation node for lcp request")

	// ErrMissingMainResource means the inputs hold no main document record,
	// so TTFB has no anchor. Inputs return it from MainResource.
	ErrMissingMainResource = errors.New("main document record not found")

	// ErrLoadTimestampsUnavailable means the LCP load start or end is zero.
	ErrLoadTimestampsUnavailable = errors.New("lcp load timestamps unavailable")

	// ErrNegativePhase means TTFB, load delay or load time came out negative.
	ErrNegativePhase = errors.New("negative phase duration")
)

// reasonFor maps a decomposition error onto its reason.
func reasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMissingSimulationNode):
		return ReasonMissingSimulationNode
	case errors.Is(err, ErrLoadTimestampsUnavailable):
		return ReasonLoadTimestampsUnavailable
	case errors.Is(err, ErrNegativePhase):
		return ReasonMissingPhaseData
	default:
		return ReasonMissingPhaseData
	}
}
