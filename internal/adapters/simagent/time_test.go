package simagent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/modemprov/internal/domain"
)

type staticMode struct {
	mode domain.FunctionalMode
	err  error
}

func (s *staticMode) FunctionalMode(ctx context.Context) (domain.FunctionalMode, error) {
	return s.mode, s.err
}

func TestTimeSource_UnavailableUntilDelay(t *testing.T) {
	link := &staticMode{mode: domain.ModeNormal}
	ts := NewTimeSource(link, 2)
	ts.now = func() time.Time { return time.Date(2026, 10, 18, 7, 5, 9, 0, time.UTC) }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := ts.NetworkTime(ctx)
		assert.ErrorIs(t, err, domain.ErrTimeUnavailable)
	}

	got, err := ts.NetworkTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, "26/10/18,07:05:09+00", got)
}

func TestTimeSource_OfflineResets(t *testing.T) {
	link := &staticMode{mode: domain.ModeNormal}
	ts := NewTimeSource(link, 1)
	ctx := context.Background()

	_, err := ts.NetworkTime(ctx)
	assert.ErrorIs(t, err, domain.ErrTimeUnavailable)

	link.mode = domain.ModeOffline
	_, err = ts.NetworkTime(ctx)
	assert.ErrorIs(t, err, domain.ErrTimeUnavailable)

	link.mode = domain.ModeNormal
	_, err = ts.NetworkTime(ctx)
	assert.ErrorIs(t, err, domain.ErrTimeUnavailable, "counter restarts after leaving normal mode")

	_, err = ts.NetworkTime(ctx)
	assert.NoError(t, err)
}

func TestTimeSource_LinkError(t *testing.T) {
	ts := NewTimeSource(&staticMode{err: assert.AnError}, 0)

	_, err := ts.NetworkTime(context.Background())
	assert.ErrorIs(t, err, domain.ErrTimeUnavailable)
	assert.ErrorIs(t, err, assert.AnError)
}
