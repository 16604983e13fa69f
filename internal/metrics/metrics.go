// Package metrics exposes Prometheus collectors for the provisioning lifecycle.
//
// Collectors are registered lazily on first use with the default registry.
// Record* helpers are safe to call from any goroutine.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/modemprov/pkg/log"
)

const namespace = "modemprov"

var (
	registerOnce sync.Once

	networkEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "events_total",
			Help:      "Network events delivered by the link, by kind.",
		},
		[]string{"kind"},
	)
	gateReleases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "releases_total",
			Help:      "First releases of a lifecycle gate.",
		},
		[]string{"gate"},
	)
	arbitrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mode",
			Name:      "arbitrations_total",
			Help:      "Functional mode change requests, by requested mode and outcome.",
		},
		[]string{"requested", "outcome"},
	)
	timeSyncAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mode",
			Name:      "time_sync_attempts_total",
			Help:      "Network time queries made while returning to normal mode.",
		},
		[]string{"success"},
	)
	provisioningEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provisioning",
			Name:      "events_total",
			Help:      "Provisioning agent events, by event.",
		},
		[]string{"event"},
	)
	restarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provisioning",
			Name:      "restarts_total",
			Help:      "Restart sequences started after provisioning finished.",
		},
	)
	phase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "phase",
			Help:      "Current main sequence phase (1 for the active phase).",
		},
		[]string{"phase"},
	)
	heartbeats = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cloud",
			Name:      "heartbeats_total",
			Help:      "Operational heartbeats sent, by success.",
		},
		[]string{"success"},
	)
)

// RegisterMetrics registers all collectors with the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(networkEvents, gateReleases, arbitrations, timeSyncAttempts,
			provisioningEvents, restarts, phase, heartbeats)
	})
}

func RecordNetworkEvent(kind string) {
	RegisterMetrics()
	networkEvents.WithLabelValues(kind).Inc()
}

func RecordGateRelease(gate string) {
	RegisterMetrics()
	gateReleases.WithLabelValues(gate).Inc()
}

func RecordArbitration(requested, outcome string) {
	RegisterMetrics()
	arbitrations.WithLabelValues(requested, outcome).Inc()
}

func RecordTimeSyncAttempt(success bool) {
	RegisterMetrics()
	timeSyncAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func RecordProvisioningEvent(event string) {
	RegisterMetrics()
	provisioningEvents.WithLabelValues(event).Inc()
}

func RecordRestart() {
	RegisterMetrics()
	restarts.Inc()
}

func RecordHeartbeat(success bool) {
	RegisterMetrics()
	heartbeats.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// SetPhase marks current as the active phase and clears previous.
func SetPhase(previous, current string) {
	RegisterMetrics()
	if previous != "" {
		phase.WithLabelValues(previous).Set(0)
	}
	phase.WithLabelValues(current).Set(1)
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics endpoint listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
