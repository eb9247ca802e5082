package bundle

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/runnerr0/lcpbreakdown/internal/lcp"
	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

// CurrentVersion is the bundle format version this package reads.
const CurrentVersion = 1

// Bundle is a decoded, validated artifact bundle.
type Bundle struct {
	wire WireBundle
	// Hash is the hex SHA-256 of the encoded bundle.
	Hash string
}

// Load reads and decodes the bundle file at path.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a bundle from r and validates its shape.
func Decode(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var w WireBundle
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if err := validate(&w); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}

	sum := sha256.Sum256(data)
	return &Bundle{wire: w, Hash: fmt.Sprintf("%x", sum)}, nil
}

func validate(w *WireBundle) error {
	if w.Version != CurrentVersion {
		return fmt.Errorf("unsupported version %d (want %d)", w.Version, CurrentVersion)
	}
	if w.URL == "" {
		return fmt.Errorf("url is required")
	}

	seen := make(map[string]bool, len(w.NetworkRecords))
	for i, r := range w.NetworkRecords {
		if r.RequestID == "" {
			return fmt.Errorf("network_records[%d]: request_id is required", i)
		}
		if seen[r.RequestID] {
			return fmt.Errorf("network_records[%d]: duplicate request_id %q", i, r.RequestID)
		}
		if r.TransferSize < 0 {
			return fmt.Errorf("network_records[%d]: negative transfer_size %d", i, r.TransferSize)
		}
		seen[r.RequestID] = true
	}
	if w.MainDocumentID != "" && !seen[w.MainDocumentID] {
		return fmt.Errorf("main_document_request_id %q matches no network record", w.MainDocumentID)
	}

	if c := w.LcpCandidate; c != nil {
		switch trace.PaintType(c.PaintType) {
		case trace.PaintImage, trace.PaintText:
		default:
			return fmt.Errorf("lcp_candidate: unknown paint_type %q", c.PaintType)
		}
	}

	if est := w.LcpMetric.PessimisticEstimate; est != nil {
		for i, nt := range est.NodeTimings {
			switch trace.NodeType(nt.Node.Type) {
			case trace.NodeTypeNetwork:
				if !seen[nt.Node.RequestID] {
					return fmt.Errorf("node_timings[%d]: request_id %q matches no network record", i, nt.Node.RequestID)
				}
			case trace.NodeTypeCPU:
			default:
				return fmt.Errorf("node_timings[%d]: unknown node type %q", i, nt.Node.Type)
			}
		}
	}
	return nil
}

// URL returns the audited page URL.
func (b *Bundle) URL() string { return b.wire.URL }

// FetchTime returns the capture time as written in the bundle.
func (b *Bundle) FetchTime() string { return b.wire.FetchTime }

// Identity names the trace the bundle carries: its ID when set, otherwise
// its content hash.
func (b *Bundle) Identity() string {
	if b.wire.ID != "" {
		return b.wire.ID
	}
	return b.Hash
}

// Settings returns the settings key, defaulting to fallback.
func (b *Bundle) Settings(fallback string) string {
	if b.wire.Settings != "" {
		return b.wire.Settings
	}
	return fallback
}

// RequestCount returns the number of network records.
func (b *Bundle) RequestCount() int { return len(b.wire.NetworkRecords) }

// TransferSize sums the transfer size of every network record.
func (b *Bundle) TransferSize() int64 {
	var n int64
	for _, r := range b.wire.NetworkRecords {
		n += r.TransferSize
	}
	return n
}

// Provider serves a bundle's artifacts as lcp.Inputs.
type Provider struct {
	b *Bundle
}

var _ lcp.Inputs = Provider{}

// Inputs returns the bundle's artifacts.
func (b *Bundle) Inputs() Provider { return Provider{b: b} }

func (p Provider) Trace(ctx context.Context) (trace.Trace, error) {
	if err := ctx.Err(); err != nil {
		return trace.Trace{}, err
	}
	c := p.b.wire.LcpCandidate
	if c == nil {
		return trace.Trace{}, nil
	}
	return trace.Trace{Candidate: &trace.LcpCandidate{
		Node: trace.NodeRef{
			DevtoolsNodePath: c.DevtoolsNodePath,
			Selector:         c.Selector,
			NodeLabel:        c.NodeLabel,
			Snippet:          c.Snippet,
			BoundingRect:     c.BoundingRect,
		},
		Paint: trace.PaintEvent{
			Timestamp: c.PaintTimestamp,
			Type:      trace.PaintType(c.PaintType),
			ImageURL:  c.ImageURL,
			FrameID:   c.FrameID,
		},
	}}, nil
}

func (p Provider) NetworkRecords(ctx context.Context) ([]trace.NetworkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]trace.NetworkRecord, len(p.b.wire.NetworkRecords))
	for i, r := range p.b.wire.NetworkRecords {
		out[i] = toRecord(r)
	}
	return out, nil
}

func (p Provider) ProcessedNavigation(ctx context.Context) (trace.NavigationTimestamps, error) {
	if err := ctx.Err(); err != nil {
		return trace.NavigationTimestamps{}, err
	}
	return trace.NavigationTimestamps{TimeOrigin: p.b.wire.Navigation.TimeOrigin}, nil
}

func (p Provider) LcpMetric(ctx context.Context) (trace.MetricResult, error) {
	if err := ctx.Err(); err != nil {
		return trace.MetricResult{}, err
	}
	m := p.b.wire.LcpMetric
	res := trace.MetricResult{Timing: m.Timing}
	if m.PessimisticEstimate == nil {
		return res, nil
	}

	byID := make(map[string]trace.NetworkRecord, len(p.b.wire.NetworkRecords))
	for _, r := range p.b.wire.NetworkRecords {
		byID[r.RequestID] = toRecord(r)
	}

	est := &trace.SimulatedEstimate{NodeTimings: make([]trace.NodeTiming, 0, len(m.PessimisticEstimate.NodeTimings))}
	for _, nt := range m.PessimisticEstimate.NodeTimings {
		node := trace.SimulationNode{ID: nt.Node.ID, Type: trace.NodeType(nt.Node.Type)}
		if node.Type == trace.NodeTypeNetwork {
			rec := byID[nt.Node.RequestID]
			node.Record = &rec
		}
		est.NodeTimings = append(est.NodeTimings, trace.NodeTiming{
			Node:      node,
			StartTime: nt.StartTime,
			EndTime:   nt.EndTime,
		})
	}
	res.PessimisticEstimate = est
	return res, nil
}

func (p Provider) MainResource(ctx context.Context) (trace.NetworkRecord, error) {
	if err := ctx.Err(); err != nil {
		return trace.NetworkRecord{}, err
	}
	id := p.b.wire.MainDocumentID
	for _, r := range p.b.wire.NetworkRecords {
		if id != "" && r.RequestID == id {
			return toRecord(r), nil
		}
		if id == "" && r.ResourceType == "Document" {
			return toRecord(r), nil
		}
	}
	return trace.NetworkRecord{}, fmt.Errorf("%d network records: %w", len(p.b.wire.NetworkRecords), lcp.ErrMissingMainResource)
}

func toRecord(r WireNetworkRecord) trace.NetworkRecord {
	finished := true
	if r.Finished != nil {
		finished = *r.Finished
	}
	return trace.NetworkRecord{
		RequestID:              r.RequestID,
		URL:                    r.URL,
		ResourceType:           r.ResourceType,
		FrameID:                r.FrameID,
		StatusCode:             r.StatusCode,
		TransferSize:           r.TransferSize,
		Finished:               finished,
		NetworkRequestTime:     r.NetworkRequestTime,
		NetworkEndTime:         r.NetworkEndTime,
		ResponseHeadersEndTime: r.ResponseHeadersEndTime,
	}
}
