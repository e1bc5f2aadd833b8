package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// migrations[i] moves a ledger from user_version i to i+1.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS runs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		tag        TEXT NOT NULL,
		seed       INTEGER NOT NULL,
		options    TEXT NOT NULL DEFAULT '{}',
		game_dir   TEXT NOT NULL,
		mod_dir    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path   TEXT NOT NULL,
		sha256 TEXT NOT NULL,
		CONSTRAINT uq_artifact UNIQUE (run_id, path)
	);

	-- lookups by tag want the newest run first
	CREATE INDEX IF NOT EXISTS idx_runs_tag ON runs (tag, id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts (run_id);
	`,
	// rules in force for the run
	`ALTER TABLE runs ADD COLUMN rules TEXT NOT NULL DEFAULT '{}';`,
}

// EnsureSchema applies every migration the ledger has not seen yet.
func (c *Client) EnsureSchema(ctx context.Context) error {
	var version int
	if err := c.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for ; version < len(migrations); version++ {
		if err := c.migrate(ctx, version+1, migrations[version]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) migrate(ctx context.Context, to int, ddl string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", to, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", to)); err != nil {
		return fmt.Errorf("recording schema version %d: %w", to, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", to, err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
