// Package fsutil holds the few filesystem helpers shared by the
// download orchestrator and configuration code.
package fsutil

import "os"

// EnsureDir creates a directory and all missing parents with mode 0755.
// Existing directories are not an error.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to path with mode 0644, truncating any existing
// file. The caller holds the complete content before calling, so a file
// is either absent or fully written.
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// Exists reports whether path exists. Stat errors other than
// non-existence count as existing so a present-but-unreadable file is
// never clobbered.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
