package domain

import "time"

// Outcome values recorded in BootRecord.LastOutcome.
const (
	OutcomeNone        = ""
	OutcomeStarted     = "started"
	OutcomeStopped     = "stopped"
	OutcomeDone        = "done"
	OutcomeInitFailed  = "init_failed"
	OutcomeOperational = "operational"
)

// BootRecord is persisted across restarts for crash recovery and diagnostics.
type BootRecord struct {
	// BootID identifies the current process lifetime.
	BootID string `json:"boot_id"`

	// BootCount is incremented once per Main Sequence run.
	BootCount uint64 `json:"boot_count"`

	// LastOutcome is the last provisioning outcome observed.
	LastOutcome string `json:"last_outcome"`

	// LastPhase is the last lifecycle phase reached.
	LastPhase string `json:"last_phase"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Record updates the outcome and timestamp.
func (b *BootRecord) Record(outcome string, now time.Time) {
	b.LastOutcome = outcome
	b.UpdatedAt = now
}
