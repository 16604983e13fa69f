package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MODEMPROV_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("MODEMPROV_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("state-dir", os.Getenv("MODEMPROV_STATE_DIR"), &cfg.StateDir)
	s.setString("device-id", os.Getenv("MODEMPROV_DEVICE_ID"), &cfg.DeviceID)
	s.setString("service-url", os.Getenv("MODEMPROV_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("auth-key", os.Getenv("MODEMPROV_AUTH_KEY"), &cfg.AuthKey)
	s.setString("metrics-addr", os.Getenv("MODEMPROV_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("restart", os.Getenv("MODEMPROV_RESTART_MODE"), &cfg.RestartMode)
	s.setString("link-script", os.Getenv("MODEMPROV_LINK_SCRIPT"), &cfg.LinkScript)
	s.setString("outcome", os.Getenv("MODEMPROV_OUTCOME"), &cfg.Outcome)

	if err := s.setDuration("heartbeat", os.Getenv("MODEMPROV_HEARTBEAT_INTERVAL"), &cfg.HeartbeatInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("MODEMPROV_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("time-sync-interval", os.Getenv("MODEMPROV_TIME_SYNC_INTERVAL"), &cfg.TimeSyncInterval); err != nil {
		return err
	}
	if err := s.setDuration("event-delay", os.Getenv("MODEMPROV_EVENT_DELAY"), &cfg.EventDelay); err != nil {
		return err
	}
	if err := s.setDuration("connect-delay", os.Getenv("MODEMPROV_CONNECT_DELAY"), &cfg.ConnectDelay); err != nil {
		return err
	}

	if err := s.setIntFromString("exit-code", os.Getenv("MODEMPROV_EXIT_CODE"), &cfg.ExitCode); err != nil {
		return err
	}
	if err := s.setIntFromString("time-sync-delay", os.Getenv("MODEMPROV_TIME_SYNC_DELAY"), &cfg.TimeSyncDelay); err != nil {
		return err
	}

	s.setBoolFromString("headless", os.Getenv("MODEMPROV_HEADLESS"), &cfg.Headless)
	s.setBoolFromString("once", os.Getenv("MODEMPROV_ONCE"), &cfg.Once)
	s.setBoolFromString("skip-credentials", os.Getenv("MODEMPROV_SKIP_CREDENTIALS"), &cfg.SkipCredentials)

	return nil
}
