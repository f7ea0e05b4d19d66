package snapshots

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// ErrNotFound is returned when no cached copy exists for a path.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a cached schedule document with its modification time.
type Snapshot struct {
	Data    []byte
	ModTime time.Time
}

// Store defines how cached schedule documents are loaded and persisted.
type Store interface {
	Load(path string) (Snapshot, error)
	Save(path string, data []byte) error
}

// FSStore keeps cached documents on the local filesystem.
type FSStore struct {
	basePath string
	now      func() time.Time
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath, now: time.Now}
}

// BasePath exposes the store root.
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Load reads the document at path (relative paths resolve under the base path).
func (s *FSStore) Load(path string) (Snapshot, error) {
	if s == nil {
		return Snapshot{}, errors.New("snapshot store not configured")
	}
	if path == "" {
		return Snapshot{}, errors.New("snapshot path required")
	}
	full := ResolvePath(s.basePath, path)

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, full)
		}
		return Snapshot{}, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Data: data, ModTime: info.ModTime()}, nil
}
