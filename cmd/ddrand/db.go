package main

import (
	"context"
	"fmt"
	"strings"

	"ddrand/internal/store"
	"ddrand/internal/store/postgres"
	"ddrand/internal/store/sqlite"
)

// openStore opens the run ledger named by dsn. Both backends migrate their
// schema on open.
func openStore(ctx context.Context, dsn string) (store.Store, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database dsn: %q", dsn)
	}
}

// openLedger is openStore for commands that need the ledger configured.
func openLedger(ctx context.Context, dsn string) (store.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("no run ledger configured: set database.dsn")
	}
	return openStore(ctx, dsn)
}
