package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/bft-labs/modemprov/internal/ports"
)

const heartbeatEndpoint = "/v1/devices/heartbeat"

// Metadata identifies the device to the cloud service.
// It is carried in HTTP headers for server-side tracking.
type Metadata struct {
	// DeviceID is the stable device identifier.
	DeviceID string

	// Hostname is the agent's hostname.
	Hostname string

	// AuthKey is the API authentication key.
	AuthKey string

	// ServiceURL is the base URL of the cloud service.
	ServiceURL string
}

// Heartbeat is the JSON body posted on every beat.
type Heartbeat struct {
	BootID    string    `json:"boot_id"`
	BootCount uint64    `json:"boot_count"`
	Sequence  uint64    `json:"seq"`
	Outcome   string    `json:"last_outcome"`
	SentAt    time.Time `json:"sent_at"`
}

// HeartbeatSender posts heartbeats over HTTP.
type HeartbeatSender struct {
	client ports.HTTPClient
}

// NewHeartbeatSender creates a sender. A nil client uses http.DefaultClient.
func NewHeartbeatSender(client ports.HTTPClient) *HeartbeatSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HeartbeatSender{client: client}
}

// Send transmits one heartbeat.
func (s *HeartbeatSender) Send(ctx context.Context, hb Heartbeat, metadata Metadata) error {
	body, err := json.Marshal(hb)
	if err != nil {
		return fmt.Errorf("marshal heartbeat: %w", err)
	}

	url := metadata.ServiceURL + heartbeatEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if metadata.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+metadata.AuthKey)
	}
	req.Header.Set("X-Agent-Hostname", metadata.Hostname)
	req.Header.Set("X-Agent-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	req.Header.Set("X-Device-Id", metadata.DeviceID)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
