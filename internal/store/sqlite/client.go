package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ddrand/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

// connPragmas are applied by the driver to every pooled connection.
var connPragmas = []string{"busy_timeout(30000)", "foreign_keys(1)"}

type Client struct {
	db *sql.DB
}

// Open opens the ledger named by a sqlite:// DSN and migrates it to the
// current schema.
func Open(ctx context.Context, dsn string) (*Client, error) {
	name, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", withPragmas(name))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite ledger: %w", err)
	}
	if name == ":memory:" {
		// each connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	c := &Client{db: db}
	if err := c.prepare(ctx, name == ":memory:"); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) prepare(ctx context.Context, memory bool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite ledger: %w", err)
	}
	if !memory {
		// journal mode is stored in the file, so once is enough
		if _, err := c.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
			return fmt.Errorf("enabling WAL: %w", err)
		}
	}
	if err := c.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("migrating ledger: %w", err)
	}
	return nil
}

func withPragmas(name string) string {
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(name, "?") {
		sep = "&"
	}
	return name + sep + q.Encode()
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
