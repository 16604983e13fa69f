package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	LogLevel          string `toml:"log_level"`
	StateDir          string `toml:"state_dir"`
	DeviceID          string `toml:"device_id"`
	ServiceURL        string `toml:"service_url"`
	AuthKey           string `toml:"auth_key"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
	HTTPTimeout       string `toml:"http_timeout"`
	TimeSyncInterval  string `toml:"time_sync_interval"`
	MetricsAddr       string `toml:"metrics_addr"`
	RestartMode       string `toml:"restart_mode"`
	ExitCode          int    `toml:"exit_code"`
	Headless          *bool  `toml:"headless"`
	Once              *bool  `toml:"once"`

	Simulator SimulatorFileConfig `toml:"simulator"`
}

// SimulatorFileConfig is the [simulator] table.
type SimulatorFileConfig struct {
	LinkScript      string `toml:"link_script"`
	EventDelay      string `toml:"event_delay"`
	ConnectDelay    string `toml:"connect_delay"`
	Outcome         string `toml:"outcome"`
	TimeSyncDelay   int    `toml:"time_sync_delay"`
	SkipCredentials *bool  `toml:"skip_credentials"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.modemprov/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".modemprov", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("device-id", fc.DeviceID, &cfg.DeviceID)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("restart", fc.RestartMode, &cfg.RestartMode)
	s.setString("link-script", fc.Simulator.LinkScript, &cfg.LinkScript)
	s.setString("outcome", fc.Simulator.Outcome, &cfg.Outcome)

	if err := s.setDuration("heartbeat", fc.HeartbeatInterval, &cfg.HeartbeatInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("time-sync-interval", fc.TimeSyncInterval, &cfg.TimeSyncInterval); err != nil {
		return err
	}
	if err := s.setDuration("event-delay", fc.Simulator.EventDelay, &cfg.EventDelay); err != nil {
		return err
	}
	if err := s.setDuration("connect-delay", fc.Simulator.ConnectDelay, &cfg.ConnectDelay); err != nil {
		return err
	}

	s.setInt("exit-code", fc.ExitCode, &cfg.ExitCode)
	s.setInt("time-sync-delay", fc.Simulator.TimeSyncDelay, &cfg.TimeSyncDelay)

	s.setBool("headless", fc.Headless, &cfg.Headless)
	s.setBool("once", fc.Once, &cfg.Once)
	s.setBool("skip-credentials", fc.Simulator.SkipCredentials, &cfg.SkipCredentials)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
