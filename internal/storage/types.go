package storage

import "time"

// Run is one persisted LCP breakdown analysis.
type Run struct {
	ID         string
	URL        string
	Domain     string
	Timestamp  time.Time
	BundleHash string
	Identity   string
	Settings   string

	LcpFound bool
	LcpMs    float64
	Selector string
	// Phases is nil when no breakdown was produced.
	Phases       *Phases
	Inconsistent bool
	Reason       string

	// ResultJSON is the full encoded result.
	ResultJSON string
}

// Phases holds the four LCP phase durations in milliseconds.
type Phases struct {
	TTFB        float64
	LoadDelay   float64
	LoadTime    float64
	RenderDelay float64
}

// RunQuery defines filters for listing runs.
type RunQuery struct {
	URL          string // substring match
	Domain       string
	Since        time.Time
	Until        time.Time
	OnlyPhases   bool
	Inconsistent bool
	Limit        int
	Offset       int
}

// Stats holds aggregate statistics about the run history.
type Stats struct {
	TotalRuns         int64
	RunsWithPhases    int64
	InconsistentRuns  int64
	OldestRun         time.Time
	NewestRun         time.Time
	DatabaseSizeBytes int64
	// AvgPhases averages every run that has a breakdown; nil when none do.
	AvgPhases  *Phases
	TopDomains []DomainCount
}

// DomainCount pairs a domain with its run count.
type DomainCount struct {
	Domain string
	Count  int64
}
