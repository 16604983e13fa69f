package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"MODEMPROV_LOG_LEVEL":          "debug",
				"MODEMPROV_STATE_DIR":          "/env/state",
				"MODEMPROV_DEVICE_ID":          "env-device",
				"MODEMPROV_SERVICE_URL":        "http://example.com",
				"MODEMPROV_AUTH_KEY":           "secret",
				"MODEMPROV_METRICS_ADDR":       ":9100",
				"MODEMPROV_RESTART_MODE":       "exit",
				"MODEMPROV_HEARTBEAT_INTERVAL": "1m",
				"MODEMPROV_HTTP_TIMEOUT":       "30s",
				"MODEMPROV_TIME_SYNC_INTERVAL": "10ms",
				"MODEMPROV_EXIT_CODE":          "3",
				"MODEMPROV_TIME_SYNC_DELAY":    "5",
				"MODEMPROV_OUTCOME":            "done",
				"MODEMPROV_HEADLESS":           "true",
				"MODEMPROV_ONCE":               "1",
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				LogLevel:          "debug",
				StateDir:          "/env/state",
				DeviceID:          "env-device",
				ServiceURL:        "http://example.com",
				AuthKey:           "secret",
				MetricsAddr:       ":9100",
				RestartMode:       "exit",
				HeartbeatInterval: time.Minute,
				HTTPTimeout:       30 * time.Second,
				TimeSyncInterval:  10 * time.Millisecond,
				ExitCode:          3,
				TimeSyncDelay:     5,
				Outcome:           "done",
				Headless:          true,
				Once:              true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"MODEMPROV_STATE_DIR": "/env/state",
				"MODEMPROV_DEVICE_ID": "env-device",
			},
			changed:  map[string]bool{"state-dir": true},
			initial:  Config{StateDir: "/flag/state"},
			expected: Config{StateDir: "/flag/state", DeviceID: "env-device"},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"MODEMPROV_TIME_SYNC_INTERVAL": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"MODEMPROV_EXIT_CODE": "not-a-number"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:     "handles bool 'false' as false",
			envVars:  map[string]string{"MODEMPROV_HEADLESS": "false"},
			changed:  map[string]bool{},
			initial:  Config{Headless: true},
			expected: Config{Headless: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyEnvConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyEnvConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		StateDir: "/file/state",
		DeviceID: "file-device",
		Headless: &trueVal,
		Simulator: SimulatorFileConfig{
			Outcome: "done",
		},
	}

	t.Setenv("MODEMPROV_STATE_DIR", "/env/state")
	t.Setenv("MODEMPROV_DEVICE_ID", "env-device")
	t.Setenv("MODEMPROV_SERVICE_URL", "http://env.example.com")

	// Simulate CLI flags
	changed := map[string]bool{
		"state-dir": true,
	}

	cfg := Config{
		StateDir: "/cli/state", // This should remain (CLI wins)
	}

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.StateDir != "/cli/state" {
		t.Errorf("StateDir = %v, want /cli/state (CLI should win)", cfg.StateDir)
	}
	if cfg.DeviceID != "env-device" {
		t.Errorf("DeviceID = %v, want env-device (env should override file)", cfg.DeviceID)
	}
	if cfg.ServiceURL != "http://env.example.com" {
		t.Errorf("ServiceURL = %v, want http://env.example.com (env should set)", cfg.ServiceURL)
	}
	if !cfg.Headless {
		t.Errorf("Headless = %v, want true (file should set)", cfg.Headless)
	}
	if cfg.Outcome != "done" {
		t.Errorf("Outcome = %v, want done (file should set)", cfg.Outcome)
	}
}
