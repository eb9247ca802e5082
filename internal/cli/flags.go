package cli

import (
	"io"

	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	DBPath  string `long:"db-path" description:"Override the run history database path"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AnalyzeCommand computes the LCP phase breakdown of one or more bundles.
type AnalyzeCommand struct {
	Bundles  []string `long:"bundle" short:"b" description:"Path to a trace bundle (repeatable, required)"`
	Settings string   `long:"settings" description:"Settings key used when the bundle does not name one"`
	NoSave   bool     `long:"no-save" description:"Do not record the run in history"`
	Chart    string   `long:"chart" description:"Write a PNG bar chart of the phases to this path"`

	globals *GlobalFlags
	version string
	store   storage.Store // injectable for testing
}

// HistoryCommand lists recorded runs.
type HistoryCommand struct {
	URL          string `long:"url" description:"Only runs whose URL contains this text"`
	Domain       string `long:"domain" description:"Filter by domain"`
	Since        string `long:"since" description:"Only runs newer than duration (e.g., 7d, 24h, 2w)"`
	Phases       bool   `long:"phases" description:"Only runs with a phase breakdown"`
	Inconsistent bool   `long:"inconsistent" description:"Only runs with inconsistent timings"`
	Limit        int    `long:"limit" description:"Maximum results" default:"20"`
	Offset       int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
	store   storage.Store
}

// ShowCommand prints one recorded run.
type ShowCommand struct {
	ID string `long:"id" description:"Run ID (required)"`

	globals *GlobalFlags
	version string
	store   storage.Store
}

// StatusCommand shows run history statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PruneCommand removes runs older than the retention period.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 30d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
}

// PurgeCommand deletes ALL recorded runs with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader // nil means os.Stdin
}
