package ports

import (
	"context"

	"github.com/bft-labs/modemprov/internal/domain"
)

// BootRecordRepository persists boot bookkeeping across restarts.
type BootRecordRepository interface {
	// Load retrieves the last saved record.
	// Returns an empty record and nil error if none exists.
	Load(ctx context.Context) (domain.BootRecord, error)

	// Save persists the record atomically.
	Save(ctx context.Context, rec domain.BootRecord) error
}
