// Package config handles focusd configuration files and runtime paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// namePattern validates daemon names: alphanumeric, underscore, hyphen only.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	// DefaultConfigRoot is the fixed location searched for a config file
	// when no explicit path is given. Override with FOCUSD_CONFIG_ROOT.
	DefaultConfigRoot = "/etc/focusd"

	// DefaultPollInterval matches the goto monitor cadence of the EFA.
	DefaultPollInterval = 500 * time.Millisecond
	// DefaultRequestTimeout bounds quick daemon calls from the client.
	DefaultRequestTimeout = 5 * time.Second
	// DefaultMoveTimeout bounds a single focus move.
	DefaultMoveTimeout = 5 * time.Minute
	// DefaultMaxSteps is the upper slew limit when none is configured.
	DefaultMaxSteps = 1 << 23 // largest 3-byte position the wire format carries
)

// Config selects the daemon instance and its hardware parameters.
// Loaded once per invocation and immutable afterwards.
type Config struct {
	Name             string `yaml:"name"` // Required, names the socket and pid file
	SerialPort       string `yaml:"serial_port"`
	MinSteps         int    `yaml:"min_steps,omitempty"`
	MaxSteps         int    `yaml:"max_steps,omitempty"`
	PollIntervalMS   int    `yaml:"poll_interval_ms,omitempty"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms,omitempty"`
	MoveTimeoutS     int    `yaml:"move_timeout_s,omitempty"`
	Disabled         bool   `yaml:"disabled,omitempty"`
}

// PollInterval returns the hardware poll cadence, using default if not set.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMS > 0 {
		return time.Duration(c.PollIntervalMS) * time.Millisecond
	}
	return DefaultPollInterval
}

// RequestTimeout returns the client call timeout, using default if not set.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS > 0 {
		return time.Duration(c.RequestTimeoutMS) * time.Millisecond
	}
	return DefaultRequestTimeout
}

// MoveTimeout returns the move deadline, using default if not set.
func (c *Config) MoveTimeout() time.Duration {
	if c.MoveTimeoutS > 0 {
		return time.Duration(c.MoveTimeoutS) * time.Second
	}
	return DefaultMoveTimeout
}

// GetMaxSteps returns the upper slew limit, using default if not set.
func (c *Config) GetMaxSteps() int {
	if c.MaxSteps > 0 {
		return c.MaxSteps
	}
	return DefaultMaxSteps
}

// Validate checks required fields and limit consistency.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !namePattern.MatchString(c.Name) {
		return fmt.Errorf("name must contain only alphanumeric characters, underscores, and hyphens")
	}
	if !c.Disabled && c.SerialPort == "" {
		return fmt.Errorf("serial_port is required unless the channel is disabled")
	}
	if c.MinSteps < 0 {
		return fmt.Errorf("min_steps must not be negative")
	}
	if c.GetMaxSteps() <= c.MinSteps {
		return fmt.Errorf("max_steps (%d) must exceed min_steps (%d)", c.GetMaxSteps(), c.MinSteps)
	}
	return nil
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve finds the config file to use: the explicit override if given,
// otherwise exactly one *.yaml file in the config root. Zero or multiple
// discoverable files is a resolution error.
func Resolve(override string) (*Config, error) {
	if override != "" {
		return Load(override)
	}

	root := os.Getenv("FOCUSD_CONFIG_ROOT")
	if root == "" {
		root = DefaultConfigRoot
	}

	matches, err := filepath.Glob(filepath.Join(root, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", root, err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no config file found in %s", root)
	case 1:
		return Load(matches[0])
	}
	return nil, fmt.Errorf("%d config files found in %s, specify one with --config", len(matches), root)
}
