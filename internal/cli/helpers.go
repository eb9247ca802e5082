package cli

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

// loadConfig reads --config when given, otherwise the default config file,
// creating it on first use. A default config that cannot be read or created
// falls back to built-in defaults; one that does not parse is an error.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		cfg, err := config.Load(globals.Config)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := config.LoadOrCreate()
	if errors.Is(err, config.ErrInvalidConfig) {
		return nil, err
	}
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// resolveDBPath determines the SQLite database file path.
// Priority: --db-path flag > config file > default config.
func resolveDBPath(globals *GlobalFlags, cfg *config.Config) (string, error) {
	if globals != nil && globals.DBPath != "" {
		return globals.DBPath, nil
	}
	return cfg.DBPath()
}

// openStore opens the database at dbPath, runs migrations, and returns a
// ready-to-use store and the underlying *sql.DB.
func openStore(dbPath string) (*storage.SQLiteStore, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	return store, db, nil
}

// withStore loads config, opens the history database and calls fn.
func withStore(globals *GlobalFlags, fn func(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB, dbPath string) error) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}
	dbPath, err := resolveDBPath(globals, cfg)
	if err != nil {
		return err
	}

	store, db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return fn(cfg, store, db, dbPath)
}

// parseDuration parses a human-friendly duration string like "30d", "7d", "24h", "2w".
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("invalid duration: empty string")
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]

	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %q", s)
	}

	switch suffix {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid duration: %q (use d, h, w, or m suffix)", s)
	}
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.String()
}

// formatMs renders a millisecond value to one decimal with thousands separators.
func formatMs(ms float64) string {
	r := math.Round(ms*10) / 10
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return humanize.Commaf(r) + " ms"
}

// writeJSON writes v to stdout as indented JSON.
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
