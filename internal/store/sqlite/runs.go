package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ddrand/internal/store"
)

func (c *Client) RecordRun(ctx context.Context, r store.RunInput) (int64, error) {
	optionsJSON, err := json.Marshal(r.Options)
	if err != nil {
		return 0, fmt.Errorf("marshaling options: %w", err)
	}
	rulesJSON, err := json.Marshal(r.Rules)
	if err != nil {
		return 0, fmt.Errorf("marshaling rules: %w", err)
	}
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (tag, seed, options, rules, game_dir, mod_dir, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Tag, r.Seed, string(optionsJSON), string(rulesJSON), r.GameDir, r.ModDir, createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, f := range r.Files {
		if _, err := tx.ExecContext(ctx, `INSERT INTO artifacts (run_id, path, sha256) VALUES (?, ?, ?)`, id, f.Path, f.Hash); err != nil {
			return 0, fmt.Errorf("inserting artifact %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

func (c *Client) GetRun(ctx context.Context, tag string) (*store.Run, error) {
	query := `
	SELECT id, tag, seed, options, rules, game_dir, mod_dir, created_at
	FROM runs
	WHERE tag = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var r store.Run
	var optionsJSON, rulesJSON, createdAt string
	err := c.db.QueryRowContext(ctx, query, tag).Scan(&r.ID, &r.Tag, &r.Seed, &optionsJSON, &rulesJSON, &r.GameDir, &r.ModDir, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	if err := json.Unmarshal([]byte(optionsJSON), &r.Options); err != nil {
		return nil, fmt.Errorf("unmarshaling options: %w", err)
	}
	if err := json.Unmarshal([]byte(rulesJSON), &r.Rules); err != nil {
		return nil, fmt.Errorf("unmarshaling rules: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT path, sha256 FROM artifacts WHERE run_id = ? ORDER BY path`, r.ID)
	if err != nil {
		return nil, fmt.Errorf("getting artifacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f store.File
		if err := rows.Scan(&f.Path, &f.Hash); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		r.Files = append(r.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}
	return &r, nil
}

func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT r.id, r.tag, r.seed, r.mod_dir, r.created_at, COUNT(a.path)
	FROM runs r
	LEFT JOIN artifacts a ON a.run_id = r.id
	GROUP BY r.id
	ORDER BY r.id DESC
	LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []store.RunSummary
	for rows.Next() {
		var s store.RunSummary
		var createdAt string
		if err := rows.Scan(&s.ID, &s.Tag, &s.Seed, &s.ModDir, &createdAt, &s.FileCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
