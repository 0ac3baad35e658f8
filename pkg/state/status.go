package state

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// FileStatus classifies a file against the ledger.
type FileStatus string

const (
	// StatusMigrated means the file matches the hash recorded when it
	// was last run through the rules.
	StatusMigrated FileStatus = "migrated"

	// StatusDrifted means the file is tracked but has been edited since
	// it was migrated. Re-running the rules is safe; anything the edit
	// reintroduced gets picked up, everything else is left alone.
	StatusDrifted FileStatus = "drifted"

	// StatusUntracked means the file exists but the ledger has no entry
	// for it.
	StatusUntracked FileStatus = "untracked"

	// StatusMissing means the file does not exist on disk.
	StatusMissing FileStatus = "missing"
)

// FileStatus classifies path against the ledger by re-hashing its
// current contents.
func (s *State) FileStatus(path string) (FileStatus, error) {
	entry, tracked := s.Lookup(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusMissing, nil
		}
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	if !tracked {
		return StatusUntracked, nil
	}
	if hashContent(data) == entry.ContentHash {
		return StatusMigrated, nil
	}
	return StatusDrifted, nil
}

// Clean removes the ledger at path. Removing a ledger that does not
// exist is not an error.
func Clean(ctx context.Context, path string) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("removing state")

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Errorf("removing state file: %w", err)
	}
	return nil
}
