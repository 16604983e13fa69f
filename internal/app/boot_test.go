package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bft-labs/modemprov/internal/domain"
	"github.com/bft-labs/modemprov/pkg/log"
)

func TestBootTracker_BeginIncrements(t *testing.T) {
	repo := &memBootRepo{rec: domain.BootRecord{BootID: "prev", BootCount: 7, LastOutcome: domain.OutcomeDone}}
	b := newBootTracker(repo, log.NewNoopLogger())
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	b.begin(context.Background())

	rec := repo.get()
	assert.Equal(t, uint64(8), rec.BootCount)
	assert.NotEqual(t, "prev", rec.BootID)
	assert.Equal(t, domain.OutcomeNone, rec.LastOutcome)
	assert.Equal(t, fixed, rec.UpdatedAt)
	assert.Equal(t, 1, repo.saves)
}

func TestBootTracker_LoadErrorStartsFresh(t *testing.T) {
	repo := &memBootRepo{loadErr: errBoom}
	b := newBootTracker(repo, log.NewNoopLogger())

	b.begin(context.Background())

	assert.Equal(t, uint64(1), b.current().BootCount)
	assert.Equal(t, uint64(1), repo.get().BootCount)
}

func TestBootTracker_RecordAndPhase(t *testing.T) {
	repo := &memBootRepo{}
	b := newBootTracker(repo, log.NewNoopLogger())
	ctx := context.Background()

	b.begin(ctx)
	b.phase(PhaseAwaitingProvisioning.String())
	b.record(ctx, domain.OutcomeStarted)

	rec := repo.get()
	assert.Equal(t, domain.OutcomeStarted, rec.LastOutcome)
	assert.Equal(t, "AwaitingProvisioning", rec.LastPhase)
	assert.Equal(t, 2, repo.saves)
}

func TestBootTracker_NilRepository(t *testing.T) {
	b := newBootTracker(nil, log.NewNoopLogger())
	ctx := context.Background()

	b.begin(ctx)
	b.record(ctx, domain.OutcomeOperational)

	rec := b.current()
	assert.Equal(t, uint64(1), rec.BootCount)
	assert.Equal(t, domain.OutcomeOperational, rec.LastOutcome)
}
