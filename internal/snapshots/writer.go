package snapshots

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
)

// Save atomically replaces the document at path.
// Identical content only has its modification time refreshed.
func (s *FSStore) Save(path string, data []byte) error {
	if s == nil {
		return errors.New("snapshot store not configured")
	}
	if path == "" {
		return errors.New("snapshot path required")
	}
	target := ResolvePath(s.basePath, path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		now := s.now()
		return os.Chtimes(target, now, now)
	}
	return writeAtomic(target, data)
}

// writeAtomic writes to a temp file in the target directory and renames it into place,
// so readers never observe a partial document.
func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return err
	}
	return nil
}
