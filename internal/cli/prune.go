package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// Execute implements the go-flags Commander interface for PruneCommand.
func (c *PruneCommand) Execute(args []string) error {
	return withStore(c.globals, func(cfg *config.Config, store *storage.SQLiteStore, _ *sql.DB, _ string) error {
		return c.executeWithStore(cfg, store, time.Now())
	})
}

func (c *PruneCommand) executeWithStore(cfg *config.Config, store *storage.SQLiteStore, now time.Time) error {
	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	if c.OlderThan != "" {
		d, err := parseDuration(c.OlderThan)
		if err != nil {
			return err
		}
		retention = d
	}
	if retention <= 0 {
		return fmt.Errorf("retention must be positive, got %s", retention)
	}

	cutoff := now.Add(-retention)
	ctx := context.Background()

	var (
		n   int64
		err error
	)
	if c.DryRun {
		n, err = store.CountExpired(ctx, cutoff)
	} else {
		n, err = store.PruneExpired(ctx, cutoff)
	}
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(map[string]interface{}{
			"dry_run":    c.DryRun,
			"older_than": formatDurationHuman(retention),
			"cutoff":     cutoff.UTC().Format(time.RFC3339),
			"count":      n,
		})
	}

	if c.DryRun {
		fmt.Printf("Would prune %s runs older than %s.\n", humanize.Comma(n), formatDurationHuman(retention))
		return nil
	}
	fmt.Printf("Pruned %s runs older than %s.\n", humanize.Comma(n), formatDurationHuman(retention))
	return nil
}
