// Package store is the run ledger: every generated mod, the options and seed
// that produced it, and the hash of every file it wrote.
package store

import (
	"context"
	"errors"
)

var ErrRunNotFound = errors.New("run not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	RecordRun(ctx context.Context, r RunInput) (int64, error)
	// GetRun returns the latest run recorded for tag.
	GetRun(ctx context.Context, tag string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}
