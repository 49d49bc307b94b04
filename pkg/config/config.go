package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the gymctl configuration.
type Config struct {
	OutputFormat   string `yaml:"output_format" json:"output_format" validate:"oneof=table json yaml"`
	CurrencySymbol string `yaml:"currency_symbol" json:"currency_symbol" validate:"required,max=4"`
	LogLevel       string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		OutputFormat:   "table",
		CurrencySymbol: "$",
		LogLevel:       "warn",
	}
}

// DefaultPath returns the default config file path: ~/.gymctl/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".gymctl", "config.yaml")
	}
	return filepath.Join(home, ".gymctl", "config.yaml")
}

// Load reads the configuration from the given YAML file path.
// If the file does not exist, it returns the default Config with no error.
// Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Level maps LogLevel to a slog level. Unknown values fall back to warn.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
