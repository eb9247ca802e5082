package storage

import "database/sql"

// migrateV001 creates the initial schema: the runs table, the audit log and
// their indexes. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			ts          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			url         TEXT NOT NULL,
			domain      TEXT NOT NULL DEFAULT '',
			bundle_hash TEXT NOT NULL DEFAULT '',
			identity    TEXT NOT NULL DEFAULT '',
			settings    TEXT NOT NULL DEFAULT '',
			lcp_found   BOOLEAN NOT NULL DEFAULT 0,
			lcp_ms      REAL NOT NULL DEFAULT 0,
			selector    TEXT NOT NULL DEFAULT '',
			reason      TEXT NOT NULL DEFAULT '',
			result_json TEXT NOT NULL DEFAULT '{}',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			run_id TEXT,
			ts     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_runs_ts          ON runs(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_domain      ON runs(domain)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_bundle_hash ON runs(bundle_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts     ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
