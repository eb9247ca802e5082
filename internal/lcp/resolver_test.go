package lcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/lcpbreakdown/internal/trace"
)

var testNav = trace.NavigationTimestamps{TimeOrigin: 1000}

func TestResolve_MatchesByURL(t *testing.T) {
	tr := trace.Trace{Candidate: imageCandidate()}
	records := []trace.NetworkRecord{mainDocument(), heroRecord()}

	rec, ok := NewResolver().ResolveLcpRecord(tr, testNav, records)
	require.True(t, ok)
	assert.Equal(t, "2", rec.RequestID)
}

func TestResolve_NoCandidate(t *testing.T) {
	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{}, testNav, []trace.NetworkRecord{heroRecord()})
	assert.False(t, ok)
}

func TestResolve_NoRecords(t *testing.T) {
	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: imageCandidate()}, testNav, nil)
	assert.False(t, ok)
}

func TestResolve_TextPaint(t *testing.T) {
	c := imageCandidate()
	c.Paint.Type = trace.PaintText

	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{heroRecord()})
	assert.False(t, ok)
}

func TestResolve_DataURLIsNotNetwork(t *testing.T) {
	c := imageCandidate()
	c.Paint.ImageURL = "data:image/png;base64,iVBORw0KGgo="
	rec := heroRecord()
	rec.URL = c.Paint.ImageURL

	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{rec})
	assert.False(t, ok)
}

func TestResolve_ConfiguredScheme(t *testing.T) {
	c := imageCandidate()
	c.Paint.ImageURL = "chrome-extension://abc/icon.png"
	rec := heroRecord()
	rec.URL = c.Paint.ImageURL

	r := &Resolver{NonNetworkSchemes: []string{"chrome-extension"}}
	_, ok := r.ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{rec})
	assert.False(t, ok)

	_, ok = NewResolver().ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{rec})
	assert.True(t, ok)
}

func TestResolve_SkipsUnfinishedAndLateRequests(t *testing.T) {
	unfinished := heroRecord()
	unfinished.RequestID = "u"
	unfinished.Finished = false
	unfinished.NetworkEndTime = 1310

	late := heroRecord()
	late.RequestID = "late"
	late.NetworkRequestTime = 1800
	late.NetworkEndTime = 1200

	records := []trace.NetworkRecord{unfinished, late, heroRecord()}
	rec, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: imageCandidate()}, testNav, records)
	require.True(t, ok)
	assert.Equal(t, "2", rec.RequestID)
}

func TestResolve_PrefersEarliestEnd(t *testing.T) {
	slow := heroRecord()
	slow.RequestID = "slow"
	slow.NetworkEndTime = 1600

	records := []trace.NetworkRecord{slow, heroRecord()}
	rec, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: imageCandidate()}, testNav, records)
	require.True(t, ok)
	assert.Equal(t, "2", rec.RequestID)
}

func TestResolve_FrameMismatch(t *testing.T) {
	c := imageCandidate()
	c.Paint.FrameID = "main"
	rec := heroRecord()
	rec.FrameID = "iframe-1"

	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{rec})
	assert.False(t, ok)

	r := NewResolver()
	r.MatchFrame = false
	_, ok = r.ResolveLcpRecord(trace.Trace{Candidate: c}, testNav, []trace.NetworkRecord{rec})
	assert.True(t, ok)
}

func TestResolve_IgnoresRequestsBeforeNavigation(t *testing.T) {
	rec := heroRecord()
	rec.NetworkRequestTime = 900

	_, ok := NewResolver().ResolveLcpRecord(trace.Trace{Candidate: imageCandidate()}, testNav, []trace.NetworkRecord{rec})
	assert.False(t, ok)
}
