package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
	"ddrand/internal/mod"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run ledger",
	}
	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyVerifyCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	return cmd
}

func runHistoryList(limit int) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	db, err := openLedger(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(os.Stdout, "#%d %s (seed %d) %d files %s\n",
			run.ID, run.Tag, run.Seed, run.FileCount, run.CreatedAt.Local().Format(time.DateTime))
	}
	return nil
}

func historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <tag>",
		Short: "Print the latest run recorded for a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.LoadProjectConfig(configPath)
			if err != nil {
				return err
			}
			db, err := openLedger(ctx, cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			run, err := db.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			payload, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprintln(os.Stdout, string(payload))
			return nil
		},
	}
}

func historyVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <tag>",
		Short: "Re-hash a mod directory against its recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryVerify(args[0])
		},
	}
}

func runHistoryVerify(runTag string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}
	db, err := openLedger(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	run, err := db.GetRun(ctx, runTag)
	if err != nil {
		return err
	}

	recorded := make([]mod.File, 0, len(run.Files))
	for _, f := range run.Files {
		recorded = append(recorded, mod.File{Path: f.Path, Hash: f.Hash})
	}
	drift, err := mod.Verify(run.ModDir, recorded)
	if err != nil {
		return err
	}

	if drift.Clean() {
		fmt.Fprintf(os.Stdout, "%s: %d files match run #%d.\n", run.ModDir, drift.Matched, run.ID)
		return nil
	}
	printPaths("Changed", drift.Changed)
	printPaths("Missing", drift.Missing)
	printPaths("Unexpected", drift.Unexpected)
	return fmt.Errorf("mod directory drifted from run #%d", run.ID)
}

func printPaths(label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "%s (%d):\n", label, len(paths))
	for _, p := range paths {
		fmt.Fprintf(os.Stdout, "  - %s\n", p)
	}
}
