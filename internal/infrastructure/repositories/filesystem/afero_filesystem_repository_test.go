//go:build unit

package filesystem_test

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/infrastructure/repositories/filesystem"
)

func TestAferoFilesystemRepository(t *testing.T) {
	t.Parallel()

	t.Run("should create nested directories and tolerate existing ones", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		repo := filesystem.NewFilesystemRepository(fs)

		// when
		err1 := repo.MkdirAll("out/a/b")
		err2 := repo.MkdirAll("out/a/b")

		// then
		require.NoError(t, err1)
		require.NoError(t, err2)
		exists, err := afero.DirExists(fs, "out/a/b")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("should overwrite existing files and apply the mode", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		repo := filesystem.NewFilesystemRepository(fs)
		require.NoError(t, afero.WriteFile(fs, "out/run.sh", []byte("old content that is longer"), 0o644))

		// when
		err := repo.WriteFile("out/run.sh", []byte("new"), 0o755)

		// then
		require.NoError(t, err)
		data, readErr := afero.ReadFile(fs, "out/run.sh")
		require.NoError(t, readErr)
		assert.Equal(t, []byte("new"), data)
		info, statErr := fs.Stat("out/run.sh")
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	})

	t.Run("should wrap failures as filesystem errors", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		repo := filesystem.NewFilesystemRepository(fs)

		// when
		mkdirErr := repo.MkdirAll("out")
		writeErr := repo.WriteFile("out/a.txt", []byte("x"), 0o644)

		// then
		require.ErrorIs(t, mkdirErr, entities.ErrFilesystem)
		require.ErrorIs(t, writeErr, entities.ErrFilesystem)
	})
}
