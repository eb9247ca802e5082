// wire.go: JSON wire types for artifact bundles.
// A bundle carries the pre-computed artifacts of one page load: the LCP
// candidate from the trace, network records, navigation timestamps and the
// LCP metric result.
//
// JSON CONVENTION: all fields use snake_case.
package bundle

import "github.com/runnerr0/lcpbreakdown/internal/trace"

// WireBundle is the top-level bundle document.
type WireBundle struct {
	Version   int    `json:"version"`
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	FetchTime string `json:"fetch_time,omitempty"`

	// Settings names the configuration the artifacts were computed with,
	// e.g. "simulate" or "devtools".
	Settings string `json:"settings,omitempty"`

	Navigation     WireNavigation      `json:"navigation"`
	LcpCandidate   *WireLcpCandidate   `json:"lcp_candidate"`
	NetworkRecords []WireNetworkRecord `json:"network_records"`
	MainDocumentID string              `json:"main_document_request_id"`
	LcpMetric      WireMetricResult    `json:"lcp_metric"`
}

// WireNavigation holds navigation timestamps.
type WireNavigation struct {
	TimeOrigin float64 `json:"time_origin"` // absolute ms
}

// WireNetworkRecord is one network request.
type WireNetworkRecord struct {
	RequestID              string  `json:"request_id"`
	URL                    string  `json:"url"`
	ResourceType           string  `json:"resource_type,omitempty"`
	FrameID                string  `json:"frame_id,omitempty"`
	StatusCode             int     `json:"status_code,omitempty"`
	TransferSize           int64   `json:"transfer_size,omitempty"`
	Finished               *bool   `json:"finished,omitempty"` // absent means true
	NetworkRequestTime     float64 `json:"network_request_time"`
	NetworkEndTime         float64 `json:"network_end_time"`
	ResponseHeadersEndTime float64 `json:"response_headers_end_time"` // seconds
}

// WireRect is an element bounding box.
type WireRect = trace.Rect

// WireLcpCandidate is the LCP element and its paint event.
type WireLcpCandidate struct {
	DevtoolsNodePath string    `json:"devtools_node_path"`
	Selector         string    `json:"selector"`
	NodeLabel        string    `json:"node_label,omitempty"`
	Snippet          string    `json:"snippet,omitempty"`
	BoundingRect     *WireRect `json:"bounding_rect,omitempty"`
	PaintTimestamp   float64   `json:"paint_ts"`
	PaintType        string    `json:"paint_type"` // "image" | "text"
	ImageURL         string    `json:"image_url,omitempty"`
	FrameID          string    `json:"frame_id,omitempty"`
}

// WireSimulationNode is a simulation graph node.
type WireSimulationNode struct {
	ID        string `json:"id"`
	Type      string `json:"type"` // "network" | "cpu"
	RequestID string `json:"request_id,omitempty"`
}

// WireNodeTiming is one simulated node timing, in seconds.
type WireNodeTiming struct {
	Node      WireSimulationNode `json:"node"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
}

// WireSimulatedEstimate is the simulator's pessimistic estimate.
type WireSimulatedEstimate struct {
	NodeTimings []WireNodeTiming `json:"node_timings"`
}

// WireMetricResult is the LCP metric.
type WireMetricResult struct {
	Timing              float64                `json:"timing"`
	PessimisticEstimate *WireSimulatedEstimate `json:"pessimistic_estimate,omitempty"`
}
