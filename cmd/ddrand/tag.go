package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ddrand/internal/config"
	"ddrand/internal/options"
	"ddrand/internal/tag"
)

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Convert between tags and seed plus options",
	}
	cmd.AddCommand(tagEncodeCmd())
	cmd.AddCommand(tagDecodeCmd())
	return cmd
}

func tagEncodeCmd() *cobra.Command {
	var seed int32
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the tag for the configured options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, configured, err := configuredOptions()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = configured
			}
			t, err := tag.Encode(opts, seed)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, t)
			return nil
		},
	}
	cmd.Flags().Int32Var(&seed, "seed", 0, "Seed to encode instead of the configured one")
	return cmd
}

func tagDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <tag>",
		Short: "Print the seed and options a tag stands for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, seed, err := tag.Decode(args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(struct {
				Seed    int32           `yaml:"seed"`
				Options options.Options `yaml:"options"`
			}{seed, opts})
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprint(os.Stdout, string(out))
			return nil
		},
	}
}

// configuredOptions reads the options and seed from the project config, or
// the defaults when there is none.
func configuredOptions() (options.Options, int32, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return options.Default(), 0, nil
	}
	if err != nil {
		return options.Options{}, 0, err
	}
	return cfg.Options, cfg.Seed, nil
}
