package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
	"ddrand/internal/gamedata"
	"ddrand/internal/mod"
	"ddrand/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <tag>",
		Short: "Run consistency checks against a generated mod",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	dir := mod.Dir(cfg.ModsDir, args[0])
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("no mod directory for tag %s at %s", args[0], dir)
	}

	game := os.DirFS(cfg.GameDir)
	vanilla, err := gamedata.Load(gamedata.Source{Game: game})
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}
	modded, err := gamedata.Load(gamedata.Source{Game: game, Mod: os.DirFS(dir)})
	if err != nil {
		return fmt.Errorf("loading mod data: %w", err)
	}

	report, err := validate.Run(vanilla, modded, cfg.Rules)
	if err != nil {
		return err
	}

	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out *os.File, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Entity
		if issue.Layer != "" {
			location = fmt.Sprintf("%s [%s]", issue.Entity, issue.Layer)
		}
		if issue.FilePath != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
