package simagent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/modemprov/internal/domain"
)

// cclkLayout is the modem clock format (yy/MM/dd,hh:mm:ss).
const cclkLayout = "06/01/02,15:04:05"

// modeReader is the part of a network link the time source needs.
type modeReader interface {
	FunctionalMode(ctx context.Context) (domain.FunctionalMode, error)
}

// TimeSource reports network time once the link has been in normal mode
// for more than Delay queries. It implements ports.TimeSource.
type TimeSource struct {
	link  modeReader
	delay int
	now   func() time.Time

	mu       sync.Mutex
	attempts int
}

// NewTimeSource creates a time source reading the mode from link. The first
// delay queries made in normal mode fail.
func NewTimeSource(link modeReader, delay int) *TimeSource {
	return &TimeSource{link: link, delay: delay, now: time.Now}
}

// NetworkTime returns the current time in modem clock format, or an error
// wrapping domain.ErrTimeUnavailable.
func (s *TimeSource) NetworkTime(ctx context.Context) (string, error) {
	mode, err := s.link.FunctionalMode(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTimeUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != domain.ModeNormal {
		s.attempts = 0
		return "", fmt.Errorf("%w: modem %s", domain.ErrTimeUnavailable, mode)
	}

	s.attempts++
	if s.attempts <= s.delay {
		return "", domain.ErrTimeUnavailable
	}

	t := s.now().UTC()
	return t.Format(cclkLayout) + "+00", nil
}
