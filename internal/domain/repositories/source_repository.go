package repositories

import (
	"context"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
)

// SourceRepository abstracts the listing and blob services of a Git hosting
// service (CodeCommit, GitHub, GitLab, or any plain git remote).
type SourceRepository interface {
	// Name returns the source identifier (e.g. "codecommit", "github").
	Name() string

	// GetFolder returns the complete listing of a folder. The folder path is
	// relative to the repository root; the root is the empty string.
	// It fails with entities.ErrRemoteNotFound when the folder does not exist.
	GetFolder(ctx context.Context, repo entities.Repository, folderPath string) (*entities.Folder, error)

	// GetBlob returns the content of a blob.
	// It fails with entities.ErrRemoteNotFound when the blob is unknown.
	GetBlob(ctx context.Context, repo entities.Repository, blobID string) (*entities.Blob, error)
}
