// Package config loads the sync settings from an optional TOML or YAML file,
// a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingAPIKey = errors.New("missing api key: set api_key in the config file or KANBANIZE_API_KEY")

const (
	EnvAPIKey   = "KANBANIZE_API_KEY"
	EnvBaseURL  = "KANBANIZE_BASE_URL"
	EnvBoardID  = "KANBANIZE_BOARD_ID"
	EnvTimeout  = "KANBANIZE_TIMEOUT"
	EnvLedger   = "KANBANIZE_LEDGER"
	EnvLogLevel = "LOG_LEVEL"
)

// Duration is a time.Duration that unmarshals from strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	APIKey     string   `toml:"api_key" yaml:"api_key"`
	BaseURL    string   `toml:"base_url" yaml:"base_url"`
	BoardID    string   `toml:"board_id" yaml:"board_id"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`
	LogLevel   string   `toml:"log_level" yaml:"log_level"`
	LedgerPath string   `toml:"ledger_path" yaml:"ledger_path"`
}

func Default() Config {
	return Config{
		BaseURL:  "http://kanbanize.com/index.php/api/kanbanize",
		Timeout:  Duration{10 * time.Second},
		LogLevel: "info",
	}
}

// Load builds the configuration. path may be empty. A .env file in the
// working directory is read if present; variables already set win over it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvBoardID); v != "" {
		cfg.BoardID = v
	}
	if v := os.Getenv(EnvLedger); v != "" {
		cfg.LedgerPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if err := cfg.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
