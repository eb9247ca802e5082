package lcp

import (
	"strings"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

// DefaultNonNetworkSchemes are URL schemes whose resources never reach the
// network stack.
var DefaultNonNetworkSchemes = []string{"data", "blob"}

// Resolver finds the network request behind the LCP paint.
type Resolver struct {
	// NonNetworkSchemes lists schemes that short-circuit resolution.
	NonNetworkSchemes []string
	// MatchFrame requires the record and paint frame IDs to agree when both
	// are known.
	MatchFrame bool
}

// NewResolver returns a Resolver with the default scheme list and frame
// matching enabled.
func NewResolver() *Resolver {
	return &Resolver{NonNetworkSchemes: DefaultNonNetworkSchemes, MatchFrame: true}
}

// ResolveLcpRecord returns the record that delivered the LCP element's
// resource. The bool is false when the candidate is missing, is a text
// paint, uses a non-network URL, or no finished record matches.
//
// Among matching records the one that finished first wins.
func (r *Resolver) ResolveLcpRecord(tr trace.Trace, nav trace.NavigationTimestamps, records []trace.NetworkRecord) (trace.NetworkRecord, bool) {
	c := tr.Candidate
	if c == nil || len(records) == 0 {
		return trace.NetworkRecord{}, false
	}
	if c.Paint.Type == trace.PaintText || c.Paint.ImageURL == "" {
		return trace.NetworkRecord{}, false
	}
	if r.isNonNetwork(c.Paint.ImageURL) {
		return trace.NetworkRecord{}, false
	}

	best := -1
	for i, rec := range records {
		if rec.URL != c.Paint.ImageURL || !rec.Finished {
			continue
		}
		if r.MatchFrame && rec.FrameID != "" && c.Paint.FrameID != "" && rec.FrameID != c.Paint.FrameID {
			continue
		}
		// Zero paint timestamps and time origins mean "unknown".
		if c.Paint.Timestamp > 0 && rec.NetworkRequestTime > c.Paint.Timestamp {
			continue
		}
		if nav.TimeOrigin > 0 && rec.NetworkRequestTime < nav.TimeOrigin {
			continue
		}
		if best < 0 || rec.NetworkEndTime < records[best].NetworkEndTime {
			best = i
		}
	}
	if best < 0 {
		return trace.NetworkRecord{}, false
	}
	return records[best], true
}

func (r *Resolver) isNonNetwork(rawURL string) bool {
	i := strings.IndexByte(rawURL, ':')
	if i <= 0 {
		return false
	}
	scheme := strings.ToLower(rawURL[:i])
	for _, s := range r.NonNetworkSchemes {
		if strings.EqualFold(s, scheme) {
			return true
		}
	}
	return false
}
