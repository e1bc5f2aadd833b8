package main

import (
	"os"

	"github.com/spf13/cobra"

	"ddrand/internal/config"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "ddrand",
		Short:        "Seeded content randomizer for Darkest Dungeon",
		SilenceUsage: true,
	}
	root.Version = buildVersion()
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Project config file")
	root.AddCommand(randomizeCmd())
	root.AddCommand(tagCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
