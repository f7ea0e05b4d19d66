package snapshots

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Entry describes a cached document on disk without reading it.
type Entry struct {
	Path    string
	Bytes   int64
	ModTime time.Time
}

// Stat reports the size and modification time of the document at path.
func (s *FSStore) Stat(path string) (Entry, error) {
	if s == nil {
		return Entry{}, errors.New("snapshot store not configured")
	}
	if path == "" {
		return Entry{}, errors.New("snapshot path required")
	}
	full := ResolvePath(s.basePath, path)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, full)
		}
		return Entry{}, err
	}
	return Entry{Path: full, Bytes: info.Size(), ModTime: info.ModTime()}, nil
}
