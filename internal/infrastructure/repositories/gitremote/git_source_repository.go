package gitremote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const (
	sourceName   = "git"
	authUsername = "git"
	remotePrefix = "origin/"
)

// OpenFunc produces a repository for a clone URL.
type OpenFunc func(ctx context.Context, cloneURL string) (*git.Repository, error)

// GitSourceRepository implements repositories.SourceRepository for any git remote.
// The repository is cloned once into memory and served from its object store.
type GitSourceRepository struct {
	open OpenFunc

	mu    sync.Mutex
	repos map[string]*git.Repository
	trees map[string]*object.Tree
}

// NewSourceRepository creates a git source cloning over the network. A token becomes
// HTTP basic auth; SSH URLs rely on the running agent.
func NewSourceRepository(
	_ context.Context,
	settings entities.SourceSettings,
) (repositories.SourceRepository, error) {
	var auth transport.AuthMethod
	if settings.Token != "" {
		auth = &githttp.BasicAuth{Username: authUsername, Password: settings.Token}
	}

	return NewSourceRepositoryWithOpener(func(ctx context.Context, cloneURL string) (*git.Repository, error) {
		logger.Debugf("Cloning %s into memory", cloneURL)
		return git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
			URL:  cloneURL,
			Auth: auth,
		})
	}), nil
}

// NewSourceRepositoryWithOpener creates a git source backed by a custom opener.
func NewSourceRepositoryWithOpener(open OpenFunc) *GitSourceRepository {
	return &GitSourceRepository{
		open:  open,
		repos: make(map[string]*git.Repository),
		trees: make(map[string]*object.Tree),
	}
}

func (s *GitSourceRepository) Name() string { return sourceName }

func (s *GitSourceRepository) GetFolder(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
) (*entities.Folder, error) {
	root, err := s.rootTree(ctx, repo)
	if err != nil {
		return nil, err
	}

	tree := root
	if folderPath != "" {
		tree, err = root.Tree(folderPath)
		if err != nil {
			// a path naming a blob resolves to an object of the wrong type
			if errors.Is(err, object.ErrDirectoryNotFound) || errors.Is(err, plumbing.ErrInvalidType) {
				return nil, fmt.Errorf("%w: folder %q in %s", entities.ErrRemoteNotFound, folderPath, repo.Name)
			}
			return nil, fmt.Errorf("%w: folder %q in %s: %w", entities.ErrRemoteTransient, folderPath, repo.Name, err)
		}
	}

	folder := &entities.Folder{Path: folderPath, TreeID: tree.Hash.String()}
	for _, entry := range tree.Entries {
		absolute := entities.JoinPath(folderPath, entry.Name)
		hash := entry.Hash.String()

		switch entry.Mode {
		case filemode.Dir:
			folder.SubFolders = append(folder.SubFolders, entities.FolderEntry{
				AbsolutePath: absolute, RelativePath: entry.Name, TreeID: hash,
			})
		case filemode.Symlink:
			folder.SymbolicLinks = append(folder.SymbolicLinks, entities.SymbolicLinkEntry{
				AbsolutePath: absolute, BlobID: hash,
			})
		case filemode.Submodule:
			folder.SubModules = append(folder.SubModules, entities.SubModuleEntry{
				AbsolutePath: absolute, CommitID: hash,
			})
		case filemode.Executable:
			folder.Files = append(folder.Files, entities.FileEntry{
				AbsolutePath: absolute, RelativePath: entry.Name, BlobID: hash, Mode: entities.FileModeExecutable,
			})
		default:
			folder.Files = append(folder.Files, entities.FileEntry{
				AbsolutePath: absolute, RelativePath: entry.Name, BlobID: hash, Mode: entities.FileModeNormal,
			})
		}
	}

	return folder, nil
}

func (s *GitSourceRepository) GetBlob(
	ctx context.Context,
	repo entities.Repository,
	blobID string,
) (*entities.Blob, error) {
	gitRepo, err := s.repository(ctx, repo.Name)
	if err != nil {
		return nil, err
	}

	blob, err := gitRepo.BlobObject(plumbing.NewHash(blobID))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: blob %s in %s", entities.ErrRemoteNotFound, blobID, repo.Name)
		}
		return nil, fmt.Errorf("%w: blob %s in %s: %w", entities.ErrRemoteTransient, blobID, repo.Name, err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: opening blob %s: %w", entities.ErrRemoteTransient, blobID, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading blob %s: %w", entities.ErrRemoteTransient, blobID, err)
	}
	return &entities.Blob{ID: blobID, Content: content}, nil
}

func (s *GitSourceRepository) repository(ctx context.Context, cloneURL string) (*git.Repository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if repo, ok := s.repos[cloneURL]; ok {
		return repo, nil
	}

	repo, err := s.open(ctx, cloneURL)
	if err != nil {
		return nil, classifyOpen(err, cloneURL)
	}
	s.repos[cloneURL] = repo
	return repo, nil
}

// rootTree resolves the ref (HEAD when empty) to its commit tree, trying the
// remote-tracking branch when no local ref matches.
func (s *GitSourceRepository) rootTree(ctx context.Context, repo entities.Repository) (*object.Tree, error) {
	gitRepo, err := s.repository(ctx, repo.Name)
	if err != nil {
		return nil, err
	}

	key := repo.Name + "@" + repo.Ref
	s.mu.Lock()
	defer s.mu.Unlock()
	if tree, ok := s.trees[key]; ok {
		return tree, nil
	}

	revision := repo.Ref
	if revision == "" {
		revision = plumbing.HEAD.String()
	}

	hash, err := gitRepo.ResolveRevision(plumbing.Revision(revision))
	if err != nil && repo.Ref != "" {
		hash, err = gitRepo.ResolveRevision(plumbing.Revision(remotePrefix + repo.Ref))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: revision %q in %s: %w", entities.ErrRemoteNotFound, revision, repo.Name, err)
	}

	commit, err := gitRepo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: commit %s in %s: %w", entities.ErrRemoteNotFound, hash, repo.Name, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: tree of %s in %s: %w", entities.ErrRemoteTransient, hash, repo.Name, err)
	}

	s.trees[key] = tree
	return tree, nil
}

func classifyOpen(err error, cloneURL string) error {
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: repository %s: %w", entities.ErrRemoteNotFound, cloneURL, err)
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: repository %s: %w", entities.ErrRemoteAccessDenied, cloneURL, err)
	default:
		return fmt.Errorf("%w: repository %s: %w", entities.ErrRemoteTransient, cloneURL, err)
	}
}
