//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"os"

	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

// WrittenFile records the last write to a path.
type WrittenFile struct {
	Content []byte
	Mode    os.FileMode
}

// SpyFilesystemRepository implements repositories.FilesystemRepository in memory.
type SpyFilesystemRepository struct {
	// --- MkdirAll ---
	MkdirErrs map[string]error
	// spy: every MkdirAll path, in call order
	MkdirCalls []string
	Dirs       map[string]bool

	// --- WriteFile ---
	WriteErrs map[string]error
	// spy: every WriteFile path, in call order
	WriteCalls []string
	Files      map[string]WrittenFile
}

var _ repositories.FilesystemRepository = (*SpyFilesystemRepository)(nil)

// NewSpyFilesystemRepository creates an empty in-memory filesystem spy.
func NewSpyFilesystemRepository() *SpyFilesystemRepository {
	return &SpyFilesystemRepository{
		MkdirErrs: make(map[string]error),
		Dirs:      make(map[string]bool),
		WriteErrs: make(map[string]error),
		Files:     make(map[string]WrittenFile),
	}
}

func (s *SpyFilesystemRepository) MkdirAll(path string) error {
	s.MkdirCalls = append(s.MkdirCalls, path)
	if err, ok := s.MkdirErrs[path]; ok {
		return err
	}
	s.Dirs[path] = true
	return nil
}

func (s *SpyFilesystemRepository) WriteFile(path string, data []byte, perm os.FileMode) error {
	s.WriteCalls = append(s.WriteCalls, path)
	if err, ok := s.WriteErrs[path]; ok {
		return err
	}
	content := make([]byte, len(data))
	copy(content, data)
	s.Files[path] = WrittenFile{Content: content, Mode: perm}
	return nil
}
