package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for run history operations.
type Store interface {
	AddRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, query RunQuery) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
	PruneExpired(ctx context.Context, olderThan time.Time) (int64, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// tsLayout is fixed-width UTC so stored timestamps sort lexically. It also
// matches a layout the sqlite3 driver parses for DATETIME columns.
const tsLayout = "2006-01-02 15:04:05.000000"

const runColumns = `id, ts, url, domain, bundle_hash, identity, settings,
	lcp_found, lcp_ms, selector, reason, result_json,
	ttfb_ms, load_delay_ms, load_time_ms, render_delay_ms, inconsistent`

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertRun *sql.Stmt
	getRun    *sql.Stmt
	deleteRun *sql.Stmt
	insertLog *sql.Stmt
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertRun, err = s.db.Prepare(`
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getRun, err = s.db.Prepare(`SELECT ` + runColumns + ` FROM runs WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteRun, err = s.db.Prepare(`DELETE FROM runs WHERE id = ?`)
	if err != nil {
		return err
	}

	s.insertLog, err = s.db.Prepare(`INSERT INTO audit_log (action, detail, run_id) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}

	return nil
}

// generateID creates a run ID: LCP- + a random UUID.
func generateID() string {
	return "LCP-" + uuid.NewString()
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		tsLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// extractDomain pulls the hostname from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func nullFloat(p *Phases, pick func(*Phases) float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: pick(p), Valid: true}
}

// AddRun inserts a run. ID and Domain are populated automatically and a
// zero Timestamp is set to now.
func (s *SQLiteStore) AddRun(ctx context.Context, run *Run) error {
	run.ID = generateID()
	run.Domain = extractDomain(run.URL)
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	if run.ResultJSON == "" {
		run.ResultJSON = "{}"
	}

	_, err := s.insertRun.ExecContext(ctx,
		run.ID, formatTimestamp(run.Timestamp), run.URL, run.Domain,
		run.BundleHash, run.Identity, run.Settings,
		run.LcpFound, run.LcpMs, run.Selector, run.Reason, run.ResultJSON,
		nullFloat(run.Phases, func(p *Phases) float64 { return p.TTFB }),
		nullFloat(run.Phases, func(p *Phases) float64 { return p.LoadDelay }),
		nullFloat(run.Phases, func(p *Phases) float64 { return p.LoadTime }),
		nullFloat(run.Phases, func(p *Phases) float64 { return p.RenderDelay }),
		run.Inconsistent,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := s.insertLog.ExecContext(ctx, "add", run.URL, run.ID); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r                         Run
		tsStr                     string
		ttfb, delay, load, render sql.NullFloat64
	)
	err := row.Scan(
		&r.ID, &tsStr, &r.URL, &r.Domain, &r.BundleHash, &r.Identity, &r.Settings,
		&r.LcpFound, &r.LcpMs, &r.Selector, &r.Reason, &r.ResultJSON,
		&ttfb, &delay, &load, &render, &r.Inconsistent,
	)
	if err != nil {
		return Run{}, err
	}
	r.Timestamp, _ = parseTimestamp(tsStr)
	if ttfb.Valid && delay.Valid && load.Valid && render.Valid {
		r.Phases = &Phases{
			TTFB:        ttfb.Float64,
			LoadDelay:   delay.Float64,
			LoadTime:    load.Float64,
			RenderDelay: render.Float64,
		}
	}
	return r, nil
}

// GetRun retrieves a single run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.getRun.QueryRowContext(ctx, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}

// ListRuns queries runs with optional filters, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, q RunQuery) ([]Run, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	var clauses []string
	var args []interface{}

	if q.URL != "" {
		clauses = append(clauses, "url LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(q.URL)+"%")
	}
	if q.Domain != "" {
		clauses = append(clauses, "domain = ?")
		args = append(args, q.Domain)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, formatTimestamp(q.Since))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "ts <= ?")
		args = append(args, formatTimestamp(q.Until))
	}
	if q.OnlyPhases {
		clauses = append(clauses, "ttfb_ms IS NOT NULL")
	}
	if q.Inconsistent {
		clauses = append(clauses, "inconsistent = 1")
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := `SELECT ` + runColumns + ` FROM runs` + where + ` ORDER BY ts DESC LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// DeleteRun removes a run by ID.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.deleteRun.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}

	if _, err := s.insertLog.ExecContext(ctx, "delete", "", id); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// CountExpired returns how many runs PruneExpired would delete.
func (s *SQLiteStore) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE ts < ?", formatTimestamp(olderThan)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expired: %w", err)
	}
	return n, nil
}

// PruneExpired deletes runs with timestamps before olderThan.
func (s *SQLiteStore) PruneExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE ts < ?", formatTimestamp(olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	detail := fmt.Sprintf("older_than=%s deleted=%d", formatTimestamp(olderThan), n)
	if _, err := s.insertLog.ExecContext(ctx, "prune", detail, nil); err != nil {
		return n, fmt.Errorf("insert audit log: %w", err)
	}
	return n, nil
}

// PurgeAll deletes every run.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("purge runs: %w", err)
	}
	if _, err := s.insertLog.ExecContext(ctx, "purge", "", nil); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// GetStats returns aggregate statistics about the run history.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(ttfb_ms),
		       COALESCE(SUM(inconsistent), 0)
		FROM runs
	`).Scan(&stats.TotalRuns, &stats.RunsWithPhases, &stats.InconsistentRuns)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	if stats.TotalRuns > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(ts), MAX(ts) FROM runs").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("run time range: %w", err)
		}
		stats.OldestRun, _ = parseTimestamp(oldestStr)
		stats.NewestRun, _ = parseTimestamp(newestStr)
	}

	if stats.RunsWithPhases > 0 {
		var avg Phases
		err = s.db.QueryRowContext(ctx, `
			SELECT AVG(ttfb_ms), AVG(load_delay_ms), AVG(load_time_ms), AVG(render_delay_ms)
			FROM runs WHERE ttfb_ms IS NOT NULL
		`).Scan(&avg.TTFB, &avg.LoadDelay, &avg.LoadTime, &avg.RenderDelay)
		if err != nil {
			return nil, fmt.Errorf("average phases: %w", err)
		}
		stats.AvgPhases = &avg
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT domain, COUNT(*) as cnt FROM runs GROUP BY domain ORDER BY cnt DESC, domain LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top domains: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dc DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Count); err != nil {
			return nil, err
		}
		stats.TopDomains = append(stats.TopDomains, dc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.insertRun, s.getRun, s.deleteRun, s.insertLog}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
