package filesystem

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const dirMode = 0o755

// AferoFilesystemRepository implements repositories.FilesystemRepository on top of an afero.Fs.
// Production uses afero.NewOsFs, tests use afero.NewMemMapFs.
type AferoFilesystemRepository struct {
	fs afero.Fs
}

// NewFilesystemRepository creates a filesystem sink writing to the given afero filesystem.
func NewFilesystemRepository(fs afero.Fs) repositories.FilesystemRepository {
	return &AferoFilesystemRepository{fs: fs}
}

func (r *AferoFilesystemRepository) MkdirAll(path string) error {
	if err := r.fs.MkdirAll(path, dirMode); err != nil {
		return fmt.Errorf("%w: creating directory %q: %w", entities.ErrFilesystem, path, err)
	}
	return nil
}

func (r *AferoFilesystemRepository) WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := afero.WriteFile(r.fs, path, data, perm); err != nil {
		return fmt.Errorf("%w: writing file %q: %w", entities.ErrFilesystem, path, err)
	}
	// WriteFile only applies perm on create; keep the mode in sync on overwrite
	if err := r.fs.Chmod(path, perm); err != nil {
		return fmt.Errorf("%w: setting mode on %q: %w", entities.ErrFilesystem, path, err)
	}
	return nil
}
