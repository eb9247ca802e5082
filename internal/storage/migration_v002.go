package storage

import "database/sql"

// migrateV002 promotes the phase durations out of result_json into columns
// so history queries can filter and average them. Phase columns are NULL for
// runs without a breakdown.
func migrateV002(tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE runs ADD COLUMN ttfb_ms REAL`,
		`ALTER TABLE runs ADD COLUMN load_delay_ms REAL`,
		`ALTER TABLE runs ADD COLUMN load_time_ms REAL`,
		`ALTER TABLE runs ADD COLUMN render_delay_ms REAL`,
		`ALTER TABLE runs ADD COLUMN inconsistent BOOLEAN NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_runs_flags ON runs(lcp_found, inconsistent)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
