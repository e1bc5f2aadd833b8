package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"ddrand/internal/options"
	"ddrand/internal/randomize"
	"ddrand/internal/store"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()
	client, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { client.Close(ctx) })
	return client
}

func TestRecordAndGetRun(t *testing.T) {
	ctx := context.Background()
	client := openTestClient(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	input := store.RunInput{
		Tag:       "9f7000000ff",
		Seed:      255,
		Options:   options.Default(),
		Rules:     randomize.Rules{ProtectedBossPrefix: "prophet", Shapeshifter: "abomination", ExcludedCurio: "shamblers_altar"},
		GameDir:   "/games/dd",
		ModDir:    "/games/dd/mods/Randomizer 9f7000000ff",
		CreatedAt: created,
		Files: []store.File{
			{Path: "project.xml", Hash: "aa"},
			{Path: "curios/curio_type_library.csv", Hash: "bb"},
		},
	}
	id, err := client.RecordRun(ctx, input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	run, err := client.GetRun(ctx, input.Tag)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ID != id || run.Seed != 255 || run.ModDir != input.ModDir || run.GameDir != input.GameDir {
		t.Fatalf("unexpected run: %+v", run)
	}
	if run.Options != input.Options {
		t.Fatalf("expected options %+v, got %+v", input.Options, run.Options)
	}
	if run.Rules != input.Rules {
		t.Fatalf("expected rules %+v, got %+v", input.Rules, run.Rules)
	}
	if !run.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, run.CreatedAt)
	}
	want := []store.File{
		{Path: "curios/curio_type_library.csv", Hash: "bb"},
		{Path: "project.xml", Hash: "aa"},
	}
	if !reflect.DeepEqual(run.Files, want) {
		t.Fatalf("expected files %v, got %v", want, run.Files)
	}
}

func TestGetRunLatest(t *testing.T) {
	ctx := context.Background()
	client := openTestClient(t)

	client.RecordRun(ctx, store.RunInput{Tag: "t", Seed: 1, ModDir: "first"})
	client.RecordRun(ctx, store.RunInput{Tag: "t", Seed: 1, ModDir: "second"})

	run, err := client.GetRun(ctx, "t")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ModDir != "second" {
		t.Fatalf("expected latest run, got %q", run.ModDir)
	}
}

func TestGetRunNotFound(t *testing.T) {
	client := openTestClient(t)
	_, err := client.GetRun(context.Background(), "missing")
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	client := openTestClient(t)

	for i, tag := range []string{"a", "b", "c"} {
		files := make([]store.File, i)
		for j := range files {
			files[j] = store.File{Path: string(rune('x' + j)), Hash: "h"}
		}
		if _, err := client.RecordRun(ctx, store.RunInput{Tag: tag, Seed: int32(i), Files: files}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	runs, err := client.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Tag != "c" || runs[0].FileCount != 2 || runs[1].Tag != "b" || runs[1].FileCount != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	all, err := client.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 3 || all[2].FileCount != 0 {
		t.Fatalf("unexpected runs: %+v", all)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	client := openTestClient(t)
	if err := client.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()
	client, err := Open(ctx, "sqlite://:memory:")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer client.Close(ctx)

	if _, err := client.RecordRun(ctx, store.RunInput{Tag: "m", Seed: 1}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := client.GetRun(ctx, "m"); err != nil {
		t.Fatalf("expected run on the same in-memory database, got %v", err)
	}
}

func TestOpenMigratesUnversionedLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "old.db")

	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, stmt := range splitStatements(migrations[0]) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := legacy.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if _, err := legacy.ExecContext(ctx,
		`INSERT INTO runs (tag, seed, game_dir, mod_dir, created_at) VALUES ('old', 7, '/dd', '/dd/mods/x', '2026-01-02T03:04:05Z')`); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	legacy.Close()

	client, err := Open(ctx, "sqlite://"+path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer client.Close(ctx)

	var version int
	if err := client.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if version != len(migrations) {
		t.Fatalf("expected schema version %d, got %d", len(migrations), version)
	}
	run, err := client.GetRun(ctx, "old")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.Seed != 7 || run.Rules != (randomize.Rules{}) {
		t.Fatalf("expected old run with empty rules, got %+v", run)
	}
}

func TestWithPragmas(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"./ledger.db", "./ledger.db?_pragma=busy_timeout%2830000%29&_pragma=foreign_keys%281%29"},
		{"./ledger.db?cache=shared", "./ledger.db?cache=shared&_pragma=busy_timeout%2830000%29&_pragma=foreign_keys%281%29"},
	}
	for _, tt := range tests {
		if got := withPragmas(tt.name); got != tt.want {
			t.Errorf("withPragmas(%q) = %q; expected %q", tt.name, got, tt.want)
		}
	}
}
