package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/runnerr0/lcpbreakdown/internal/bundle"
	"github.com/runnerr0/lcpbreakdown/internal/computed"
	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/lcp"
	"github.com/runnerr0/lcpbreakdown/internal/logging"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// analyzeJSON is the JSON output structure for one analyzed bundle.
type analyzeJSON struct {
	RunID    string     `json:"run_id,omitempty"`
	Bundle   string     `json:"bundle"`
	URL      string     `json:"url"`
	Identity string     `json:"identity"`
	Settings string     `json:"settings"`
	Result   lcp.Result `json:"result"`
}

// Execute implements the go-flags Commander interface for AnalyzeCommand.
func (c *AnalyzeCommand) Execute(args []string) error {
	if len(c.Bundles) == 0 {
		return fmt.Errorf("--bundle is required for analyze command")
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	if c.store != nil || c.NoSave || !cfg.History.Enabled {
		return c.run(context.Background(), cfg, c.store)
	}

	dbPath, err := resolveDBPath(c.globals, cfg)
	if err != nil {
		return err
	}
	store, db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.run(context.Background(), cfg, store)
}

// run analyzes every bundle through one shared artifact cache. A nil store
// skips recording.
func (c *AnalyzeCommand) run(ctx context.Context, cfg *config.Config, store storage.Store) error {
	if c.Chart != "" && len(c.Bundles) > 1 {
		return fmt.Errorf("--chart accepts a single --bundle")
	}
	if c.NoSave {
		store = nil
	}

	verbose := c.globals != nil && c.globals.Verbose
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cache, err := computed.New(cfg.Cache.MaxEntries)
	if err != nil {
		return err
	}

	auditor := lcp.NewAuditor(&lcp.Resolver{
		NonNetworkSchemes: cfg.Analysis.NonNetworkSchemes,
		MatchFrame:        cfg.Analysis.MatchFrame,
	}, logger)

	fallback := cfg.Analysis.Settings
	if c.Settings != "" {
		fallback = c.Settings
	}

	for i, path := range c.Bundles {
		b, err := bundle.Load(path)
		if err != nil {
			return err
		}
		settings := b.Settings(fallback)

		log := logger.With(zap.String("bundle", path), zap.String("identity", b.Identity()))
		log.Debug("Analyzing bundle", zap.String("settings", settings), zap.Int("requests", b.RequestCount()))

		res, err := auditor.Run(ctx, cache.Wrap(b.Inputs(), b.Identity(), settings))
		if err != nil {
			return fmt.Errorf("analyze %s: %w", path, err)
		}

		out := analyzeJSON{
			Bundle:   path,
			URL:      b.URL(),
			Identity: b.Identity(),
			Settings: settings,
			Result:   res,
		}

		if store != nil {
			run, err := newRun(b, settings, res)
			if err != nil {
				return err
			}
			if err := store.AddRun(ctx, run); err != nil {
				return fmt.Errorf("record run: %w", err)
			}
			out.RunID = run.ID
		}

		if c.Chart != "" {
			if err := writePhaseChart(c.Chart, b.URL(), res); err != nil {
				return err
			}
		}

		if c.globals != nil && c.globals.JSON {
			if err := writeJSON(out); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			fmt.Println()
		}
		printAnalysis(out, b)
		if c.Chart != "" {
			fmt.Printf("Chart:         %s\n", c.Chart)
		}
	}

	stats := cache.Stats()
	logger.Debug("Artifact cache",
		zap.Int64("hits", stats.Hits),
		zap.Int64("misses", stats.Misses),
		zap.Int("entries", stats.Len))

	return nil
}

// newRun converts an analysis into a history record.
func newRun(b *bundle.Bundle, settings string, res lcp.Result) (*storage.Run, error) {
	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	run := &storage.Run{
		URL:        b.URL(),
		Timestamp:  time.Now(),
		BundleHash: b.Hash,
		Identity:   b.Identity(),
		Settings:   settings,
		LcpFound:   res.LcpElementFound,
		LcpMs:      res.LcpTimingMs,
		Reason:     string(res.Reason),
		ResultJSON: string(data),
	}
	if el := res.Element(); el != nil {
		run.Selector = el.Selector
	}
	if res.Phases != nil {
		run.Phases = &storage.Phases{
			TTFB:        res.Phases.Duration(lcp.PhaseTTFB),
			LoadDelay:   res.Phases.Duration(lcp.PhaseLoadDelay),
			LoadTime:    res.Phases.Duration(lcp.PhaseLoadTime),
			RenderDelay: res.Phases.Duration(lcp.PhaseRenderDelay),
		}
		run.Inconsistent = res.Phases.Inconsistent
	}
	return run, nil
}

func printAnalysis(out analyzeJSON, b *bundle.Bundle) {
	fmt.Println(out.URL)
	if out.RunID != "" {
		fmt.Printf("Run:           %s\n", out.RunID)
	}
	fmt.Printf("Trace:         %s (%s)\n", out.Identity, out.Settings)
	fmt.Printf("Requests:      %s (%s)\n", humanize.Comma(int64(b.RequestCount())), humanize.Bytes(uint64(b.TransferSize())))
	printResult(out.Result)
}

// printResult prints the element summary and phase table of a result.
func printResult(res lcp.Result) {
	el := res.Element()
	if el == nil {
		fmt.Println("LCP element:   none (not applicable)")
		return
	}

	fmt.Printf("LCP element:   %s\n", el.Selector)
	if el.NodeLabel != "" {
		fmt.Printf("Label:         %s\n", el.NodeLabel)
	}
	if el.Snippet != "" {
		fmt.Printf("Snippet:       %s\n", el.Snippet)
	}
	if r := el.BoundingRect; r != nil {
		fmt.Printf("Size:          %gx%g at (%g, %g)\n", r.Width, r.Height, r.Left, r.Top)
	}
	if res.LcpTimingMs > 0 {
		fmt.Printf("LCP:           %s\n", formatMs(res.LcpTimingMs))
	}

	if res.Phases == nil {
		fmt.Println()
		fmt.Printf("Phase breakdown unavailable: %s\n", reasonText(res.Reason))
		return
	}

	fmt.Println()
	fmt.Printf("  %-14s %12s %9s\n", "Phase", "Duration", "% of LCP")
	for _, e := range res.Phases.Entries {
		pct := "-"
		if res.LcpTimingMs > 0 {
			pct = fmt.Sprintf("%.1f%%", e.DurationMs/res.LcpTimingMs*100)
		}
		fmt.Printf("  %-14s %12s %9s\n", e.Phase.Label(), formatMs(e.DurationMs), pct)
	}

	if res.Phases.Inconsistent {
		fmt.Println()
		fmt.Println("Warning: render delay is negative; upstream timings are inconsistent.")
	}
}

func reasonText(r lcp.Reason) string {
	switch r {
	case lcp.ReasonNoMatchingNetworkRecord:
		return "the LCP element was not loaded from the network"
	case lcp.ReasonMissingSimulationNode:
		return "the simulated estimate has no node for the LCP request"
	case lcp.ReasonMissingMainResource:
		return "the bundle has no main document record to anchor TTFB"
	case lcp.ReasonLoadTimestampsUnavailable:
		return "the LCP load timestamps are unavailable"
	case lcp.ReasonMissingPhaseData:
		return "a phase came out negative; upstream data is missing"
	case lcp.ReasonNone:
		return "unknown"
	}
	return strings.ReplaceAll(string(r), "_", " ")
}
