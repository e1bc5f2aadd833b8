package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO runs (tag, seed, options, rules, game_dir, mod_dir, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`, r.Tag, r.Seed, optionsJSON, rulesJSON, r.GameDir, r.ModDir, createdAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, f := range r.Files {
		batch.Queue(`INSERT INTO artifacts (run_id, path, sha256) VALUES ($1, $2, $3)`, id, f.Path, f.Hash)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting artifacts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

func (c *Client) GetRun(ctx context.Context, tag string) (*store.Run, error) {
	query := `
SELECT id, tag, seed, options, rules, game_dir, mod_dir, created_at
FROM runs
WHERE tag = $1
ORDER BY id DESC
LIMIT 1
`

	var r store.Run
	var optionsJSON, rulesJSON []byte
	err := c.pool.QueryRow(ctx, query, tag).Scan(&r.ID, &r.Tag, &r.Seed, &optionsJSON, &rulesJSON, &r.GameDir, &r.ModDir, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	if err := json.Unmarshal(optionsJSON, &r.Options); err != nil {
		return nil, fmt.Errorf("unmarshaling options: %w", err)
	}
	if err := json.Unmarshal(rulesJSON, &r.Rules); err != nil {
		return nil, fmt.Errorf("unmarshaling rules: %w", err)
	}

	rows, err := c.pool.Query(ctx, `SELECT path, sha256 FROM artifacts WHERE run_id = $1 ORDER BY path`, r.ID)
	if err != nil {
		return nil, fmt.Errorf("getting artifacts: %w", err)
	}
	files, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.File, error) {
		var f store.File
		err := row.Scan(&f.Path, &f.Hash)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning artifacts: %w", err)
	}
	r.Files = files
	return &r, nil
}

func (c *Client) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	query := `
SELECT r.id, r.tag, r.seed, r.mod_dir, r.created_at, COUNT(a.path)
FROM runs r
LEFT JOIN artifacts a ON a.run_id = r.id
GROUP BY r.id
ORDER BY r.id DESC
LIMIT $1
`

	rows, err := c.pool.Query(ctx, query, limitArg)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []store.RunSummary
	for rows.Next() {
		var s store.RunSummary
		if err := rows.Scan(&s.ID, &s.Tag, &s.Seed, &s.ModDir, &s.CreatedAt, &s.FileCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
