// Package trace holds the pre-computed page-load artifacts the LCP breakdown
// consumes: network records, navigation timestamps, the LCP metric result and
// the LCP candidate identified in the trace.
//
// All values are read-only snapshots. Absolute timestamps are milliseconds on
// the navigation timeline; relative values are documented per field.
package trace

// NavigationTimestamps anchors relative navigation timings.
type NavigationTimestamps struct {
	// TimeOrigin is the absolute start of navigation in milliseconds.
	TimeOrigin float64
}

// NetworkRecord describes one completed network fetch.
type NetworkRecord struct {
	RequestID    string
	URL          string
	ResourceType string // "Document", "Image", "Font", ...
	FrameID      string
	StatusCode   int
	TransferSize int64
	Finished     bool

	// Absolute, observed, milliseconds.
	NetworkRequestTime float64
	NetworkEndTime     float64

	// Seconds relative to the navigation time origin.
	ResponseHeadersEndTime float64
}

// NodeType is the kind of a simulation-graph node.
type NodeType string

const (
	NodeTypeNetwork NodeType = "network"
	NodeTypeCPU     NodeType = "cpu"
)

// SimulationNode is a node of the dependency graph used by the simulator.
// Record is set only for network nodes.
type SimulationNode struct {
	ID     string
	Type   NodeType
	Record *NetworkRecord
}

// NodeTiming is the simulated timing of one graph node, in seconds relative
// to the navigation time origin.
type NodeTiming struct {
	Node      SimulationNode
	StartTime float64
	EndTime   float64
}

// SimulatedEstimate is the pessimistic estimate of a simulated metric run.
type SimulatedEstimate struct {
	NodeTimings []NodeTiming
}

// MetricResult is the already-computed LCP metric.
type MetricResult struct {
	// Timing is the total LCP in milliseconds relative to navigation start.
	Timing float64
	// PessimisticEstimate is nil when Timing came from observed timestamps.
	PessimisticEstimate *SimulatedEstimate
}

// Simulated reports whether the metric was produced by the simulator.
func (m MetricResult) Simulated() bool {
	return m.PessimisticEstimate != nil
}

// PaintType distinguishes image paints from text paints.
type PaintType string

const (
	PaintImage PaintType = "image"
	PaintText  PaintType = "text"
)

// PaintEvent is the largest-contentful-paint candidate event from the trace.
type PaintEvent struct {
	// Timestamp is the absolute paint time in milliseconds.
	Timestamp float64
	Type      PaintType
	ImageURL  string
	FrameID   string
}

// Rect is an element bounding box in CSS pixels.
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeRef identifies a DOM node for presentation.
type NodeRef struct {
	DevtoolsNodePath string `json:"devtools_node_path"`
	Selector         string `json:"selector"`
	NodeLabel        string `json:"node_label,omitempty"`
	Snippet          string `json:"snippet,omitempty"`
	BoundingRect     *Rect  `json:"bounding_rect,omitempty"`
}

// LcpCandidate is the DOM node marked as the LCP element together with the
// paint event that made it the candidate.
type LcpCandidate struct {
	Node  NodeRef
	Paint PaintEvent
}

// Trace is the slice of trace-derived data the breakdown needs.
// Candidate is nil when no qualifying paint occurred.
type Trace struct {
	Candidate *LcpCandidate
}
