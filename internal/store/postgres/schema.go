package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// migrations[i] moves a ledger from version i to i+1.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS runs (
    id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    tag        TEXT NOT NULL,
    seed       INTEGER NOT NULL,
    options    JSONB NOT NULL DEFAULT '{}',
    game_dir   TEXT NOT NULL,
    mod_dir    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS artifacts (
    run_id BIGINT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    path   TEXT NOT NULL,
    sha256 TEXT NOT NULL,
    CONSTRAINT uq_artifact UNIQUE (run_id, path)
);

CREATE INDEX IF NOT EXISTS idx_runs_tag ON runs (tag, id DESC);
CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts (run_id);
`,
	// rules in force for the run
	`ALTER TABLE runs ADD COLUMN IF NOT EXISTS rules JSONB NOT NULL DEFAULT '{}';`,
}

// migrationLock serializes concurrent migrations of one database.
const migrationLock = 0x64647261

// EnsureSchema applies every migration the ledger has not seen yet.
func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLock); err != nil {
		return fmt.Errorf("locking ledger schema: %w", err)
	}
	if _, err := tx.Exec(ctx, `CREATE TABLE IF NOT EXISTS ledger_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating version table: %w", err)
	}

	version := 0
	err = tx.QueryRow(ctx, `SELECT version FROM ledger_version`).Scan(&version)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, `INSERT INTO ledger_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	}

	for ; version < len(migrations); version++ {
		if _, err := tx.Exec(ctx, migrations[version]); err != nil {
			return fmt.Errorf("migration %d: %w", version+1, err)
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE ledger_version SET version = $1`, version); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing migrations: %w", err)
	}
	return nil
}
