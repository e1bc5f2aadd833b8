package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"ddrand/internal/options"
	"ddrand/internal/randomize"
)

// DefaultPath is the project config file the CLI looks for.
const DefaultPath = "ddrand.yaml"

const defaultDSN = "sqlite://./ddrand.db"

type ProjectConfig struct {
	Version  int             `yaml:"version"`
	GameDir  string          `yaml:"game_dir"`
	ModsDir  string          `yaml:"mods_dir"`
	Seed     int32           `yaml:"seed"`
	Options  options.Options `yaml:"options"`
	Rules    randomize.Rules `yaml:"rules"`
	Database DatabaseConfig  `yaml:"database"`
}

type DatabaseConfig struct {
	// DSN selects the run ledger backend by scheme. Empty disables the ledger.
	DSN string `yaml:"dsn"`
}

// envOverrides are applied after the file. Unset variables leave the file
// values alone.
type envOverrides struct {
	GameDir string  `env:"DDRAND_GAME_DIR"`
	ModsDir string  `env:"DDRAND_MODS_DIR"`
	Seed    *int32  `env:"DDRAND_SEED"`
	DSN     *string `env:"DDRAND_DATABASE_DSN"`
}

// Default returns the configuration written by init, before game_dir is set.
func Default() ProjectConfig {
	return ProjectConfig{
		Version:  1,
		Options:  options.Default(),
		Rules:    randomize.DefaultRules(),
		Database: DatabaseConfig{DSN: defaultDSN},
	}
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg.Rules = cfg.Rules.WithDefaults()
	if strings.TrimSpace(cfg.ModsDir) == "" && strings.TrimSpace(cfg.GameDir) != "" {
		cfg.ModsDir = filepath.Join(cfg.GameDir, "mods")
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *ProjectConfig) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.GameDir != "" {
		cfg.GameDir = o.GameDir
	}
	if o.ModsDir != "" {
		cfg.ModsDir = o.ModsDir
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	if o.DSN != nil {
		cfg.Database.DSN = *o.DSN
	}
	return nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.GameDir) == "" {
		return fmt.Errorf("game_dir is required")
	}
	if err := cfg.Options.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if dsn := cfg.Database.DSN; dsn != "" && !strings.HasPrefix(dsn, "sqlite://") &&
		!strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("unsupported database dsn scheme: %s", dsn)
	}
	return nil
}

// Marshal renders cfg as it would be written to disk.
func Marshal(cfg ProjectConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal project config: %w", err)
	}
	return data, nil
}
