package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string            `json:"version"`
	DatabasePath      string            `json:"database_path"`
	DatabaseSizeBytes int64             `json:"database_size_bytes"`
	TotalRuns         int64             `json:"total_runs"`
	RunsWithPhases    int64             `json:"runs_with_phases"`
	InconsistentRuns  int64             `json:"inconsistent_runs"`
	OldestRun         string            `json:"oldest_run,omitempty"`
	NewestRun         string            `json:"newest_run,omitempty"`
	AveragePhases     *phasesJSON       `json:"average_phases,omitempty"`
	HistoryEnabled    bool              `json:"history_enabled"`
	RetentionDays     int               `json:"retention_days"`
	CacheEntries      int               `json:"cache_max_entries"`
	TopDomains        []domainCountJSON `json:"top_domains"`
}

type domainCountJSON struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withStore(c.globals, func(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB, dbPath string) error {
		return c.executeWithStore(cfg, store, db, dbPath)
	})
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB, dbPath string) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	stats.DatabaseSizeBytes = getDatabaseSize(db, dbPath)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(cfg, stats, dbPath)
	}
	c.printStatusHuman(cfg, stats, dbPath)
	return nil
}

func (c *StatusCommand) printStatusHuman(cfg *config.Config, stats *storage.Stats, dbPath string) {
	fmt.Println("LCP Breakdown Status")
	fmt.Println("====================")
	fmt.Printf("Version:       %s\n", c.version)
	fmt.Printf("Database:      %s (%s)\n", dbPath, humanize.Bytes(uint64(stats.DatabaseSizeBytes)))
	fmt.Printf("Runs:          %s\n", humanize.Comma(stats.TotalRuns))

	if stats.TotalRuns > 0 {
		pct := float64(stats.RunsWithPhases) / float64(stats.TotalRuns) * 100
		fmt.Printf("With phases:   %s (%.1f%%)\n", humanize.Comma(stats.RunsWithPhases), pct)
		fmt.Printf("Inconsistent:  %s\n", humanize.Comma(stats.InconsistentRuns))
		fmt.Printf("Oldest:        %s\n", stats.OldestRun.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s (%s)\n", stats.NewestRun.Local().Format("2006-01-02"), humanize.Time(stats.NewestRun))
	}

	if cfg.History.Enabled {
		fmt.Printf("Retention:     %d days\n", cfg.History.RetentionDays)
	} else {
		fmt.Println("History:       disabled")
	}

	if p := stats.AvgPhases; p != nil {
		fmt.Println()
		fmt.Println("Average Phases:")
		fmt.Printf("  %-14s %12s\n", "TTFB", formatMs(p.TTFB))
		fmt.Printf("  %-14s %12s\n", "Load Delay", formatMs(p.LoadDelay))
		fmt.Printf("  %-14s %12s\n", "Load Time", formatMs(p.LoadTime))
		fmt.Printf("  %-14s %12s\n", "Render Delay", formatMs(p.RenderDelay))
	}

	if len(stats.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range stats.TopDomains {
			fmt.Printf("  %-20s %s\n", d.Domain, humanize.Comma(d.Count))
		}
	}
}

func (c *StatusCommand) printStatusJSON(cfg *config.Config, stats *storage.Stats, dbPath string) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: stats.DatabaseSizeBytes,
		TotalRuns:         stats.TotalRuns,
		RunsWithPhases:    stats.RunsWithPhases,
		InconsistentRuns:  stats.InconsistentRuns,
		HistoryEnabled:    cfg.History.Enabled,
		RetentionDays:     cfg.History.RetentionDays,
		CacheEntries:      cfg.Cache.MaxEntries,
		TopDomains:        make([]domainCountJSON, len(stats.TopDomains)),
	}

	if stats.TotalRuns > 0 {
		out.OldestRun = stats.OldestRun.UTC().Format(time.RFC3339)
		out.NewestRun = stats.NewestRun.UTC().Format(time.RFC3339)
	}
	if p := stats.AvgPhases; p != nil {
		out.AveragePhases = &phasesJSON{TTFB: p.TTFB, LoadDelay: p.LoadDelay, LoadTime: p.LoadTime, RenderDelay: p.RenderDelay}
	}

	for i, d := range stats.TopDomains {
		out.TopDomains[i] = domainCountJSON{Domain: d.Domain, Count: d.Count}
	}

	return writeJSON(out)
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}
