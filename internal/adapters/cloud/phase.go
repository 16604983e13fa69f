package cloud

import (
	"context"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/metrics"
	"github.com/bft-labs/modemprov/pkg/log"
)

// DefaultHeartbeatInterval is the pause between successful heartbeats.
const DefaultHeartbeatInterval = 30 * time.Second

// PhaseConfig configures the operational phase.
type PhaseConfig struct {
	Metadata Metadata
	Interval time.Duration

	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Once stops after the first delivered heartbeat.
	Once bool
}

// Phase is the operational phase entered after provisioning: it keeps the
// cloud service informed that the device is alive.
// It implements ports.OperationalPhase.
type Phase struct {
	config PhaseConfig
	sender *HeartbeatSender
	boot   func() domain.BootRecord
	logger log.Logger
	now    func() time.Time
}

// NewPhase creates the operational phase. boot supplies the current boot
// record for each heartbeat and may be nil.
func NewPhase(config PhaseConfig, sender *HeartbeatSender, boot func() domain.BootRecord, logger log.Logger) *Phase {
	if config.Interval <= 0 {
		config.Interval = DefaultHeartbeatInterval
	}
	if sender == nil {
		sender = NewHeartbeatSender(nil)
	}
	if boot == nil {
		boot = func() domain.BootRecord { return domain.BootRecord{} }
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Phase{
		config: config,
		sender: sender,
		boot:   boot,
		logger: logger,
		now:    time.Now,
	}
}

// Run sends heartbeats until ctx is done. Failed sends are retried with
// exponential backoff. Without a service URL it idles until ctx is done.
func (p *Phase) Run(ctx context.Context) error {
	if p.config.Metadata.ServiceURL == "" {
		p.logger.Warn("no cloud service configured, idling")
		<-ctx.Done()
		return nil
	}

	p.logger.Info("cloud phase started",
		log.String("service_url", p.config.Metadata.ServiceURL),
		log.Duration("interval", p.config.Interval))

	bo := newBackoff(p.config.BackoffInitial, p.config.BackoffMax)
	var seq uint64

	for {
		rec := p.boot()
		hb := Heartbeat{
			BootID:    rec.BootID,
			BootCount: rec.BootCount,
			Sequence:  seq,
			Outcome:   rec.LastOutcome,
			SentAt:    p.now().UTC(),
		}

		err := p.sender.Send(ctx, hb, p.config.Metadata)
		metrics.RecordHeartbeat(err == nil)

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn("heartbeat failed",
				log.Uint64("seq", seq),
				log.Duration("retry_in", bo.Current()),
				log.Err(err))
			if bo.Sleep(ctx) != nil {
				return nil
			}
			continue
		}

		p.logger.Debug("heartbeat sent", log.Uint64("seq", seq))
		bo.Reset()
		seq++

		if p.config.Once {
			return nil
		}

		t := time.NewTimer(p.config.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}
