//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

// SpySourceRepository implements repositories.SourceRepository over an in-memory tree.
// Unknown folders and blobs fail with entities.ErrRemoteNotFound.
type SpySourceRepository struct {
	// --- identity ---
	SourceName string

	// --- GetFolder ---
	Folders    map[string]*entities.Folder // folder path -> listing
	FolderErrs map[string]error
	// spy: folder paths that were listed, in call order
	FolderCalls []string

	// --- GetBlob ---
	Blobs    map[string][]byte // blob id -> content
	BlobErrs map[string]error
	// spy: blob ids that were fetched, in call order
	BlobCalls []string

	// spy: repositories passed to any call
	Repositories []entities.Repository
}

var _ repositories.SourceRepository = (*SpySourceRepository)(nil)

// NewSpySourceRepository creates an empty spy with the given name.
func NewSpySourceRepository(name string) *SpySourceRepository {
	return &SpySourceRepository{
		SourceName: name,
		Folders:    make(map[string]*entities.Folder),
		FolderErrs: make(map[string]error),
		Blobs:      make(map[string][]byte),
		BlobErrs:   make(map[string]error),
	}
}

// WithFolder registers a listing under its path.
func (s *SpySourceRepository) WithFolder(folder *entities.Folder) *SpySourceRepository {
	s.Folders[folder.Path] = folder
	return s
}

// WithBlob registers blob content under its id.
func (s *SpySourceRepository) WithBlob(id string, content []byte) *SpySourceRepository {
	s.Blobs[id] = content
	return s
}

func (s *SpySourceRepository) Name() string { return s.SourceName }

func (s *SpySourceRepository) GetFolder(
	_ context.Context, repo entities.Repository, folderPath string,
) (*entities.Folder, error) {
	s.Repositories = append(s.Repositories, repo)
	s.FolderCalls = append(s.FolderCalls, folderPath)

	if err, ok := s.FolderErrs[folderPath]; ok {
		return nil, err
	}
	folder, ok := s.Folders[folderPath]
	if !ok {
		return nil, fmt.Errorf("%w: folder %q", entities.ErrRemoteNotFound, folderPath)
	}
	return folder, nil
}

func (s *SpySourceRepository) GetBlob(
	_ context.Context, repo entities.Repository, blobID string,
) (*entities.Blob, error) {
	s.Repositories = append(s.Repositories, repo)
	s.BlobCalls = append(s.BlobCalls, blobID)

	if err, ok := s.BlobErrs[blobID]; ok {
		return nil, err
	}
	content, ok := s.Blobs[blobID]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", entities.ErrRemoteNotFound, blobID)
	}
	return &entities.Blob{ID: blobID, Content: content}, nil
}
