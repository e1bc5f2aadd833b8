package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
	"ddrand/internal/gamedata"
	"ddrand/internal/mod"
	"ddrand/internal/options"
	"ddrand/internal/randomize"
	"ddrand/internal/shuffle"
	"ddrand/internal/store"
	"ddrand/internal/tag"
)

type randomizeFlags struct {
	seed       int32
	randomSeed bool
	tag        string
	verbose    bool
}

func randomizeCmd() *cobra.Command {
	var flags randomizeFlags
	cmd := &cobra.Command{
		Use:   "randomize",
		Short: "Generate a randomized mod from the game data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.tag != "" && (cmd.Flags().Changed("seed") || flags.randomSeed) {
				return fmt.Errorf("--tag cannot be combined with --seed or --random-seed")
			}
			return runRandomize(cmd, flags)
		},
	}
	cmd.Flags().Int32Var(&flags.seed, "seed", 0, "Seed to use instead of the configured one")
	cmd.Flags().BoolVar(&flags.randomSeed, "random-seed", false, "Pick a fresh random seed")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Reproduce the run identified by a tag")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Print per-stage diagnostics to stderr")
	return cmd
}

func runRandomize(cmd *cobra.Command, flags randomizeFlags) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	opts, seed, err := runInputs(cmd, cfg, flags)
	if err != nil {
		return err
	}
	runTag, err := tag.Encode(opts, seed)
	if err != nil {
		return err
	}
	rules := cfg.Rules.WithDefaults()

	var db store.Store
	if cfg.Database.DSN != "" {
		if db, err = openStore(ctx, cfg.Database.DSN); err != nil {
			return err
		}
		defer db.Close(ctx)
		if flags.tag != "" {
			warnRulesDrift(ctx, db, flags.tag, rules)
		}
	}

	data, err := gamedata.Load(gamedata.Source{Game: os.DirFS(cfg.GameDir)})
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	result, err := randomize.Run(shuffle.NewSource(seed), opts, rules, data)
	if err != nil {
		return err
	}
	if flags.verbose {
		for _, stage := range result.Stages {
			if stage.Skipped {
				fmt.Fprintf(os.Stderr, "stage %-15s skipped\n", stage.Name)
				continue
			}
			fmt.Fprintf(os.Stderr, "stage %-15s %d draws\n", stage.Name, stage.Draws)
		}
	}

	artifacts, err := data.Artifacts()
	if err != nil {
		return err
	}
	written, err := mod.Write(cfg.ModsDir, runTag, seed, artifacts)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Randomization complete.")
	fmt.Fprintf(os.Stdout, "  Tag:   %s\n", runTag)
	fmt.Fprintf(os.Stdout, "  Seed:  %d\n", seed)
	fmt.Fprintf(os.Stdout, "  Mod:   %s\n", written.Dir)
	fmt.Fprintf(os.Stdout, "  Files: %d\n", len(written.Files))

	if db == nil {
		return nil
	}
	files := make([]store.File, 0, len(written.Files))
	for _, f := range written.Files {
		files = append(files, store.File{Path: f.Path, Hash: f.Hash})
	}
	id, err := db.RecordRun(ctx, store.RunInput{
		Tag:       runTag,
		Seed:      seed,
		Options:   opts,
		Rules:     rules,
		GameDir:   cfg.GameDir,
		ModDir:    written.Dir,
		CreatedAt: time.Now(),
		Files:     files,
	})
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  Run:   #%d\n", id)
	return nil
}

// warnRulesDrift warns when the latest run for a tag used other rules. Tags
// encode only the options and the seed.
func warnRulesDrift(ctx context.Context, db store.Store, runTag string, rules randomize.Rules) {
	prev, err := db.GetRun(ctx, runTag)
	if err != nil || prev.Rules == (randomize.Rules{}) {
		return
	}
	if prev.Rules != rules {
		fmt.Fprintf(os.Stderr, "warning: run #%d for this tag used rules %+v, now using %+v\n", prev.ID, prev.Rules, rules)
	}
}

// runInputs resolves the option set and seed: a tag wins over everything,
// then --random-seed, then --seed, then the config file.
func runInputs(cmd *cobra.Command, cfg *config.ProjectConfig, flags randomizeFlags) (options.Options, int32, error) {
	if flags.tag != "" {
		return tag.Decode(flags.tag)
	}
	seed := cfg.Seed
	switch {
	case flags.randomSeed:
		fresh, err := shuffle.NewSeed()
		if err != nil {
			return options.Options{}, 0, err
		}
		seed = fresh
	case cmd.Flags().Changed("seed"):
		seed = flags.seed
	}
	return cfg.Options, seed, nil
}
