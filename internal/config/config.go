// Package config loads the project configuration file consumed by the
// dbexec CLI. Flags override file values; the file holds the stable parts
// of a setup such as the driver, the DSN and the retry policy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// RetryConfig describes the transient fault recovery policy.
type RetryConfig struct {
	// Enabled turns recovery on. When false every operation runs once.
	Enabled bool `yaml:"enabled"`

	// Attempts is the total number of invocations, first try included.
	Attempts int `yaml:"attempts"`

	// RecoveryWait is the fixed component added to every backoff delay,
	// in Go duration syntax ("2s", "500ms").
	RecoveryWait string `yaml:"recovery_wait"`

	// Jitter adds a random component to each delay.
	Jitter bool `yaml:"jitter"`
}

// ProjectConfig is the top-level dbexec.yaml shape.
type ProjectConfig struct {
	// Driver selects the database binding: postgres, mysql or sqlite.
	Driver string `yaml:"driver"`

	// DSN is the connection string passed to the driver.
	DSN string `yaml:"dsn"`

	// Timeout is the default per-command timeout in Go duration syntax.
	Timeout string `yaml:"timeout"`

	// Params are default command parameters, merged under flag-supplied ones.
	Params map[string]string `yaml:"params"`

	Retry RetryConfig `yaml:"retry"`
}

const ConfigFileName = "dbexec.yaml"

// Default returns the configuration used when no file is present.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Driver: "postgres",
		Retry: RetryConfig{
			Enabled:      true,
			Attempts:     dbexec.DefaultRetryAttempts,
			RecoveryWait: dbexec.DefaultRecoveryWaitTime.String(),
		},
	}
}

// Load reads dbexec.yaml from the given directory.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a typo is most likely to break.
func (c *ProjectConfig) Validate() error {
	switch c.Driver {
	case "postgres", "mysql", "sqlite", "sqlite3":
	case "":
		return fmt.Errorf("driver is required: %w", dbexec.ErrInvalidConfig)
	default:
		return fmt.Errorf("unknown driver %q: %w", c.Driver, dbexec.ErrUnknownDriver)
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, dbexec.ErrInvalidConfig)
		}
	}

	if c.Retry.Enabled {
		if c.Retry.Attempts < 1 {
			return fmt.Errorf("retry attempts must be at least 1, got %d: %w", c.Retry.Attempts, dbexec.ErrInvalidConfig)
		}
		if c.Retry.RecoveryWait != "" {
			wait, err := time.ParseDuration(c.Retry.RecoveryWait)
			if err != nil || wait <= 0 {
				return fmt.Errorf("invalid recovery wait %q: %w", c.Retry.RecoveryWait, dbexec.ErrInvalidConfig)
			}
		}
	}
	return nil
}

// CommandTimeout returns the parsed default timeout, or the built-in
// default when the file does not set one. Validate must have passed.
func (c *ProjectConfig) CommandTimeout() time.Duration {
	if c.Timeout == "" {
		return dbexec.DefaultCommandTimeout
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RecoveryWaitTime returns the parsed recovery wait, or the built-in
// default when the file does not set one. Validate must have passed.
func (c *RetryConfig) RecoveryWaitTime() time.Duration {
	if c.RecoveryWait == "" {
		return dbexec.DefaultRecoveryWaitTime
	}
	d, _ := time.ParseDuration(c.RecoveryWait)
	return d
}
