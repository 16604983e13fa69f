package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultDeviceIDFile is the file under StateDir holding the device identity.
const DefaultDeviceIDFile = "device_id"

// LoadDeviceID fills cfg.DeviceID from StateDir if it is not already set.
// A new random ID is generated and persisted on first use, so the device
// keeps its identity across restarts.
func LoadDeviceID(cfg *Config) error {
	if cfg.DeviceID != "" {
		return nil
	}
	if cfg.StateDir == "" {
		return fmt.Errorf("device-id is required (or state-dir)")
	}

	path := filepath.Join(cfg.StateDir, DefaultDeviceIDFile)
	b, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(b))
		if _, perr := uuid.Parse(id); perr != nil {
			return fmt.Errorf("invalid device id in %s: %w", path, perr)
		}
		cfg.DeviceID = id
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("read device id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return fmt.Errorf("write device id: %w", err)
	}
	cfg.DeviceID = id
	return nil
}
