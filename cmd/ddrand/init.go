package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
)

func initCmd() *cobra.Command {
	var gameDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a ddrand.yaml project config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(gameDir) == "" {
				return fmt.Errorf("--game-dir is required")
			}
			return runInit(gameDir)
		},
	}
	cmd.Flags().StringVar(&gameDir, "game-dir", "", "Darkest Dungeon install directory")
	return cmd
}

func runInit(gameDir string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	cfg := config.Default()
	cfg.GameDir = gameDir
	contents, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, contents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", configPath)
	return nil
}
