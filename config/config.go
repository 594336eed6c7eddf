// Package config loads the settings of the ft command.
//
// Settings come, by increasing priority, from built-in defaults, an optional
// YAML file, a .env file and environment variables. Command-line flags are
// applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/flowtrack"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultLedgerFile = "flowtrack.jsonl"
	DefaultFileName   = ".flowtrack.yaml"
	DotEnvFile        = ".env"
)

// Environment variables overriding the configuration file.
const (
	EnvLedgerFile = "FT_LEDGER_FILE"
	EnvCurrency   = "FT_CURRENCY"
	EnvVerbose    = "FT_VERBOSE"
)

// Config holds the settings of the ft command.
type Config struct {
	// LedgerFile is the path to the JSONL ledger.
	LedgerFile string `yaml:"ledger_file"`
	// Currency is given to amounts entered without one.
	Currency string `yaml:"currency"`
	// Verbose enables debug logs.
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LedgerFile: DefaultLedgerFile,
		Currency:   flowtrack.DefaultCurrency,
	}
}

// DefaultPath returns the path of the configuration file in the user's home
// directory, or "" if there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

// Load returns the configuration read from the YAML file at path, with
// environment variables applied on top.
//
// When path is empty, DefaultPath is used and may not exist. An explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if !optional || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads the variables of a .env file into the environment. It
// never overrides variables already set, and a missing file is ignored.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvLedgerFile); ok {
		c.LedgerFile = v
	}
	if v, ok := os.LookupEnv(EnvCurrency); ok {
		c.Currency = v
	}
	if v, ok := os.LookupEnv(EnvVerbose); ok && v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvVerbose, v, err)
		}
		c.Verbose = verbose
	}
	return nil
}

// Validate checks that the configuration is usable. The currency is
// normalized to upper case.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.LedgerFile) == "" {
		errs = append(errs, errors.New("ledger file path is empty"))
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if !flowtrack.KnownCurrency(c.Currency) {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
