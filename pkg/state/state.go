package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LockFileName is the ledger fixapi writes next to the tree it migrates.
const LockFileName = ".fixapi.lock"

// State is the migration ledger. It remembers which files have been run
// through the rules and what their contents hashed to afterwards, so a
// later invocation can tell migrated, drifted and untracked files apart
// without re-deriving anything from the sources.
type State struct {
	LastUpdated time.Time `json:"last_updated"`

	// ConfigHash fingerprints the config the ledger was written under,
	// so a changed target list or receiver is detectable.
	ConfigHash string `json:"config_hash,omitempty"`

	// Files tracks every file the rules have been applied to.
	Files []FileEntry `json:"files"`

	path string
}

// FileEntry records one migrated file.
type FileEntry struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"`
	LastUpdated time.Time `json:"last_updated"`

	// Rules lists the rule names that changed the file when it was
	// migrated. Empty when the file was already in the new shape.
	Rules []string `json:"rules,omitempty"`
}

// LoadState loads the ledger at path. A missing file is not an error: it
// yields an empty ledger bound to that path, ready to be filled and saved.
func LoadState(ctx context.Context, path string) (*State, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading state")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{path: path}, nil
		}
		return nil, errors.Errorf("reading state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Errorf("parsing state file %s: %w", path, err)
	}
	st.path = path
	return &st, nil
}

// Save writes the ledger back to the path it was loaded from. The write
// goes through a temp file and rename so a crash cannot leave a truncated
// ledger behind.
func (s *State) Save(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", s.path).Int("files", len(s.Files)).Msg("writing state")

	s.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Errorf("encoding state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Errorf("replacing state file: %w", err)
	}
	return nil
}

// Path returns where the ledger lives on disk.
func (s *State) Path() string {
	return s.path
}

// PutFile records path in the ledger, hashing its current on-disk
// contents. An existing entry for the same path is replaced.
func (s *State) PutFile(ctx context.Context, path string, rules []string) (*FileEntry, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Strs("rules", rules).Msg("putting file in state")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s for state tracking: %w", path, err)
	}

	entry := FileEntry{
		Path:        path,
		ContentHash: hashContent(data),
		LastUpdated: time.Now().UTC(),
		Rules:       rules,
	}

	for i := range s.Files {
		if s.Files[i].Path == path {
			s.Files[i] = entry
			return &s.Files[i], nil
		}
	}
	s.Files = append(s.Files, entry)
	return &s.Files[len(s.Files)-1], nil
}

// Lookup returns the ledger entry for path, if any.
func (s *State) Lookup(path string) (*FileEntry, bool) {
	for i := range s.Files {
		if s.Files[i].Path == path {
			return &s.Files[i], true
		}
	}
	return nil, false
}

// RemoveFile drops the entry for path. It reports whether one existed.
func (s *State) RemoveFile(path string) bool {
	for i := range s.Files {
		if s.Files[i].Path == path {
			s.Files = append(s.Files[:i], s.Files[i+1:]...)
			return true
		}
	}
	return false
}

// IsConsistent reports whether every tracked file still matches the hash
// recorded for it. Missing and drifted files both count as inconsistent.
func (s *State) IsConsistent(ctx context.Context) (bool, error) {
	for _, entry := range s.Files {
		status, err := s.FileStatus(entry.Path)
		if err != nil {
			return false, err
		}
		if status != StatusMigrated {
			return false, nil
		}
	}
	return true, nil
}

// HashConfig fingerprints the effective run configuration. Path order
// does not matter.
func HashConfig(receiver string, paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return hashContent([]byte(receiver + "\n" + strings.Join(sorted, "\n")))
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
