package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/lcpbreakdown/internal/config"
	"github.com/runnerr0/lcpbreakdown/internal/storage"
)

const (
	simulatedBundle   = "../bundle/testdata/simulated.json"
	observedBundle    = "../bundle/testdata/observed.json"
	textBundle        = "../bundle/testdata/text.json"
	noCandidateBundle = "../bundle/testdata/no_candidate.json"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestStore creates a migrated in-memory store for testing.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// testConfig returns defaults with logging kept quiet.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	return cfg
}

func listAll(t *testing.T, store storage.Store) []storage.Run {
	t.Helper()
	runs, err := store.ListRuns(context.Background(), storage.RunQuery{Limit: 1000})
	require.NoError(t, err)
	return runs
}
