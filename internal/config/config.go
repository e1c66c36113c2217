// Package config loads the termhooks configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/michael-freling/termhooks/internal/logging"
)

// Config holds the termhooks session configuration.
type Config struct {
	// Prompt is displayed before each command line.
	Prompt string `yaml:"prompt"`

	// HooksDir is the directory scanned for *.lua hook files.
	HooksDir string `yaml:"hooks_dir"`

	// HistoryFile stores the interactive command history. Empty disables
	// history persistence.
	HistoryFile string `yaml:"history_file"`

	// Log configures the structured logger.
	Log logging.Config `yaml:"log"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Prompt:      "$ ",
		HooksDir:    ".hooks",
		HistoryFile: ".termhooks_history",
		Log:         logging.DefaultConfig(),
	}
}

// Load reads configuration from path on top of the defaults, then applies
// environment variable overrides. An empty path skips the file and uses
// defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvironmentOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnvironmentOverrides(cfg *Config) {
	if v := os.Getenv("TERMHOOKS_PROMPT"); v != "" {
		cfg.Prompt = v
	}
	if v := os.Getenv("TERMHOOKS_HOOKS_DIR"); v != "" {
		cfg.HooksDir = v
	}
	if v := os.Getenv("TERMHOOKS_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("TERMHOOKS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = logging.Level(v)
	}
	if v := os.Getenv("TERMHOOKS_LOG_FORMAT"); v != "" {
		cfg.Log.Format = logging.Format(v)
	}
}

func validate(cfg *Config) error {
	if cfg.HooksDir == "" {
		return fmt.Errorf("hooks_dir is required")
	}
	switch cfg.Log.Format {
	case logging.TextFormat, logging.JSONFormat, "":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}
