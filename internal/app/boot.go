package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/internal/ports"
	"github.com/bft-labs/modemprov/pkg/log"
)

// bootTracker keeps the boot record current. Persistence is best effort:
// failures are logged and never interrupt the lifecycle.
type bootTracker struct {
	repo   ports.BootRecordRepository
	logger log.Logger
	now    func() time.Time

	mu  sync.Mutex
	rec domain.BootRecord
}

func newBootTracker(repo ports.BootRecordRepository, logger log.Logger) *bootTracker {
	return &bootTracker{repo: repo, logger: logger, now: time.Now}
}

// begin loads the previous record and starts a new boot.
func (b *bootTracker) begin(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.repo != nil {
		rec, err := b.repo.Load(ctx)
		if err != nil {
			b.logger.Error("failed to load boot record", log.Err(err))
		} else {
			b.rec = rec
		}
	}

	previous := b.rec.LastOutcome
	b.rec.BootID = uuid.NewString()
	b.rec.BootCount++
	b.rec.Record(domain.OutcomeNone, b.now())

	b.logger.Info("boot",
		log.String("boot_id", b.rec.BootID),
		log.Uint64("boot_count", b.rec.BootCount),
		log.String("previous_outcome", previous))

	b.saveLocked(ctx)
}

func (b *bootTracker) record(ctx context.Context, outcome string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rec.Record(outcome, b.now())
	b.saveLocked(ctx)
}

func (b *bootTracker) phase(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rec.LastPhase = name
}

func (b *bootTracker) current() domain.BootRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec
}

func (b *bootTracker) saveLocked(ctx context.Context) {
	if b.repo == nil {
		return
	}
	if err := b.repo.Save(ctx, b.rec); err != nil {
		b.logger.Error("failed to save boot record", log.Err(err))
	}
}
