package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/lcp"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}
	if c.store != nil {
		return c.executeWithStore(c.store)
	}
	return withStore(c.globals, func(_ *config.Config, store *storage.SQLiteStore, _ *sql.DB, _ string) error {
		return c.executeWithStore(store)
	})
}

func (c *ShowCommand) executeWithStore(store storage.Store) error {
	run, err := store.GetRun(context.Background(), c.ID)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(toRunJSON(*run, true))
	}

	fmt.Println(run.ID)
	fmt.Printf("URL:           %s\n", run.URL)
	fmt.Printf("Analyzed:      %s\n", run.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Trace:         %s (%s)\n", run.Identity, run.Settings)
	if run.BundleHash != "" {
		fmt.Printf("Bundle hash:   %s\n", run.BundleHash)
	}

	var res lcp.Result
	if err := json.Unmarshal([]byte(run.ResultJSON), &res); err != nil {
		return fmt.Errorf("decode stored result: %w", err)
	}
	printResult(res)
	return nil
}
