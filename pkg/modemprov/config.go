package modemprov

import (
	"fmt"
	"strings"
	"time"

	"github.com/bft-labs/modemprov/internal/app"
	"github.com/bft-labs/modemprov/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeSyncInterval  = app.DefaultTimeSyncInterval
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultHTTPTimeout       = 15 * time.Second
)

// Config holds the configuration for a Device.
type Config struct {
	// StateDir holds boot.json. Empty disables boot record persistence.
	StateDir string

	// DeviceID identifies the device to the cloud service.
	DeviceID string

	// ServiceURL is the cloud service base URL. Empty idles the default
	// operational phase.
	ServiceURL string

	// AuthKey is the cloud API key.
	AuthKey string

	// HeartbeatInterval is the pause between heartbeats.
	HeartbeatInterval time.Duration

	// HTTPTimeout bounds each heartbeat request.
	HTTPTimeout time.Duration

	// TimeSyncInterval is the pause before each network time query while
	// the modem returns to normal mode.
	TimeSyncInterval time.Duration

	// Once stops the default operational phase after one heartbeat.
	Once bool
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.TimeSyncInterval <= 0 {
		c.TimeSyncInterval = DefaultTimeSyncInterval
	}
	c.ServiceURL = strings.TrimRight(c.ServiceURL, "/")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ServiceURL != "" && !strings.HasPrefix(c.ServiceURL, "http://") && !strings.HasPrefix(c.ServiceURL, "https://") {
		return fmt.Errorf("%w: service url must be http or https", domain.ErrInvalidConfig)
	}
	if c.TimeSyncInterval < 0 || c.HeartbeatInterval < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: intervals must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}
