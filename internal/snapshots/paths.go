package snapshots

import "path/filepath"

// ResolvePath anchors a relative cache path under basePath. Absolute paths are returned cleaned.
func ResolvePath(basePath, p string) string {
	if filepath.IsAbs(p) || basePath == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(basePath, p)
}
