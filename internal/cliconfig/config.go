package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Restart modes.
const (
	RestartExec = "exec"
	RestartExit = "exit"
)

// Config holds CLI configuration for modemprov.
type Config struct {
	LogLevel string
	StateDir string
	DeviceID string

	ServiceURL        string
	AuthKey           string
	HeartbeatInterval time.Duration
	HTTPTimeout       time.Duration

	TimeSyncInterval time.Duration
	MetricsAddr      string

	RestartMode string
	ExitCode    int

	Headless bool
	Once     bool

	// Simulator settings.
	LinkScript      string
	EventDelay      time.Duration
	ConnectDelay    time.Duration
	Outcome         string
	TimeSyncDelay   int
	SkipCredentials bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:          "info",
		HeartbeatInterval: 30 * time.Second,
		HTTPTimeout:       15 * time.Second,
		TimeSyncInterval:  3 * time.Second,
		RestartMode:       RestartExec,
		ExitCode:          75,
		LinkScript:        "reg:searching,reg:home,rrc:connected,rrc:idle",
		EventDelay:        500 * time.Millisecond,
		ConnectDelay:      200 * time.Millisecond,
		Outcome:           "stop",
		TimeSyncDelay:     2,
		StateDir:          "", // Derived from the home directory during Validate
		AuthKey:           os.Getenv("MODEMPROV_AUTH_KEY"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.StateDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("state-dir is required: %w", err)
		}
		c.StateDir = filepath.Join(h, ".modemprov")
	}

	// Ensure no trailing slash
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.TimeSyncInterval <= 0 {
		return fmt.Errorf("time sync interval must be positive")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	switch c.RestartMode {
	case RestartExec, RestartExit:
	default:
		return fmt.Errorf("restart mode must be %q or %q, got %q", RestartExec, RestartExit, c.RestartMode)
	}
	if c.ExitCode < 0 || c.ExitCode > 255 {
		return fmt.Errorf("exit code must be within 0-255")
	}

	switch strings.ToLower(c.Outcome) {
	case "stop", "done":
	default:
		return fmt.Errorf("outcome must be stop or done, got %q", c.Outcome)
	}
	if c.TimeSyncDelay < 0 {
		return fmt.Errorf("time sync delay must not be negative")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
