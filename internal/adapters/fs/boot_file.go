package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/modemprov/internal/domain"
)

const bootFileName = "boot.json"

// BootFileRepository implements ports.BootRecordRepository using a JSON file.
type BootFileRepository struct {
	dir string
}

// NewBootFileRepository creates a repository storing boot.json under dir.
func NewBootFileRepository(dir string) *BootFileRepository {
	return &BootFileRepository{dir: dir}
}

// Load returns the last saved boot record.
// Returns an empty record and nil error if no boot file exists yet.
func (r *BootFileRepository) Load(ctx context.Context) (domain.BootRecord, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.BootRecord{}, nil
		}
		return domain.BootRecord{}, fmt.Errorf("read boot record: %w", err)
	}

	var rec domain.BootRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.BootRecord{}, fmt.Errorf("decode boot record: %w", err)
	}
	return rec, nil
}

// Save writes rec atomically (temp file, then rename), so a restart in the
// middle of a write leaves the previous record intact.
func (r *BootFileRepository) Save(ctx context.Context, rec domain.BootRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Path returns the full path to the boot file.
func (r *BootFileRepository) Path() string {
	return filepath.Join(r.dir, bootFileName)
}
