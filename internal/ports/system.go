package ports

import (
	"context"
	"time"
)

// Restarter performs a warm system restart. Under normal operation Restart
// does not return.
type Restarter interface {
	Restart(ctx context.Context) error
}

// Clock abstracts sleeping so retry loops can be driven by tests.
type Clock interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// OperationalPhase is the long-running phase started once provisioning completes.
type OperationalPhase interface {
	Run(ctx context.Context) error
}
