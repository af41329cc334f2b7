package repositories

import "os"

// FilesystemRepository is the local sink mirrored files are written to.
type FilesystemRepository interface {
	// MkdirAll creates a directory and its parents. Existing directories are not an error.
	MkdirAll(path string) error

	// WriteFile creates or truncates a file with the given content.
	WriteFile(path string, data []byte, perm os.FileMode) error
}
