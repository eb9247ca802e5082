package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// runJSON is the JSON shape of a run in history and show output.
type runJSON struct {
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	Domain       string          `json:"domain"`
	Timestamp    string          `json:"timestamp"`
	BundleHash   string          `json:"bundle_hash"`
	Identity     string          `json:"identity"`
	Settings     string          `json:"settings"`
	LcpFound     bool            `json:"lcp_found"`
	LcpMs        float64         `json:"lcp_ms"`
	Selector     string          `json:"selector,omitempty"`
	Phases       *phasesJSON     `json:"phases,omitempty"`
	Inconsistent bool            `json:"inconsistent"`
	Reason       string          `json:"reason,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
}

type phasesJSON struct {
	TTFB        float64 `json:"ttfb_ms"`
	LoadDelay   float64 `json:"load_delay_ms"`
	LoadTime    float64 `json:"load_time_ms"`
	RenderDelay float64 `json:"render_delay_ms"`
}

func toRunJSON(r storage.Run, withResult bool) runJSON {
	out := runJSON{
		ID:           r.ID,
		URL:          r.URL,
		Domain:       r.Domain,
		Timestamp:    r.Timestamp.UTC().Format(time.RFC3339),
		BundleHash:   r.BundleHash,
		Identity:     r.Identity,
		Settings:     r.Settings,
		LcpFound:     r.LcpFound,
		LcpMs:        r.LcpMs,
		Selector:     r.Selector,
		Inconsistent: r.Inconsistent,
		Reason:       r.Reason,
	}
	if p := r.Phases; p != nil {
		out.Phases = &phasesJSON{TTFB: p.TTFB, LoadDelay: p.LoadDelay, LoadTime: p.LoadTime, RenderDelay: p.RenderDelay}
	}
	if withResult && json.Valid([]byte(r.ResultJSON)) {
		out.Result = json.RawMessage(r.ResultJSON)
	}
	return out
}

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	if c.store != nil {
		return c.executeWithStore(c.store)
	}
	return withStore(c.globals, func(_ *config.Config, store *storage.SQLiteStore, _ *sql.DB, _ string) error {
		return c.executeWithStore(store)
	})
}

func (c *HistoryCommand) executeWithStore(store storage.Store) error {
	q := storage.RunQuery{
		URL:          c.URL,
		Domain:       c.Domain,
		OnlyPhases:   c.Phases,
		Inconsistent: c.Inconsistent,
		Limit:        c.Limit,
		Offset:       c.Offset,
	}
	if c.Since != "" {
		d, err := parseDuration(c.Since)
		if err != nil {
			return err
		}
		q.Since = time.Now().Add(-d)
	}

	runs, err := store.ListRuns(context.Background(), q)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		out := make([]runJSON, len(runs))
		for i, r := range runs {
			out[i] = toRunJSON(r, false)
		}
		return writeJSON(out)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, r := range runs {
		lcpCol := "-"
		if r.LcpFound && r.LcpMs > 0 {
			lcpCol = formatMs(r.LcpMs)
		}
		flag := ""
		switch {
		case r.Inconsistent:
			flag = "  [inconsistent]"
		case r.Phases == nil && r.Reason != "":
			flag = "  [" + r.Reason + "]"
		}
		fmt.Printf("%s  %-14s %10s  %s%s\n", r.ID, humanize.Time(r.Timestamp), lcpCol, r.URL, flag)
	}
	return nil
}
