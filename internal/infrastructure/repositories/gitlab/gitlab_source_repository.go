package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const (
	sourceName = "gitlab"
	perPage    = 100

	nodeTree   = "tree"
	nodeBlob   = "blob"
	nodeCommit = "commit"

	modeSymlink    = "120000"
	modeExecutable = "100755"
)

// GitLabSourceRepository implements repositories.SourceRepository on the GitLab repository tree API.
// Repository names are full project paths ("group/subgroup/project") or numeric IDs.
type GitLabSourceRepository struct {
	client *gl.Client
}

// NewSourceRepository creates a GitLab source. BaseURL selects a self-managed instance.
func NewSourceRepository(
	_ context.Context,
	settings entities.SourceSettings,
) (repositories.SourceRepository, error) {
	var opts []gl.ClientOptionFunc
	if settings.BaseURL != "" {
		opts = append(opts, gl.WithBaseURL(settings.BaseURL))
	}

	client, err := gl.NewClient(settings.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GitLab client: %w", entities.ErrInvalidOptions, err)
	}
	return &GitLabSourceRepository{client: client}, nil
}

func (p *GitLabSourceRepository) Name() string { return sourceName }

// GetFolder drains every page of the non-recursive tree listing for folderPath.
// GitLab answers an empty page for a path naming a blob, so an empty non-root
// listing is confirmed against the parent folder.
func (p *GitLabSourceRepository) GetFolder(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
) (*entities.Folder, error) {
	folder := &entities.Folder{Path: folderPath}
	resp, err := p.listTree(ctx, repo, folderPath, func(node *gl.TreeNode) bool {
		appendNode(folder, node)
		return true
	})
	if err != nil {
		return nil, classify(resp, err, fmt.Sprintf("folder %q in %s", folderPath, repo.Name))
	}

	if folderPath != "" && isEmpty(folder) {
		if err = p.ensureTree(ctx, repo, folderPath); err != nil {
			return nil, err
		}
	}

	return folder, nil
}

// ensureTree looks folderPath up in its parent listing and fails unless it is a tree.
func (p *GitLabSourceRepository) ensureTree(ctx context.Context, repo entities.Repository, folderPath string) error {
	parent, name := path.Split(folderPath)
	parent = strings.TrimSuffix(parent, "/")

	nodeType := ""
	resp, err := p.listTree(ctx, repo, parent, func(node *gl.TreeNode) bool {
		if node.Name == name {
			nodeType = node.Type
			return false
		}
		return true
	})
	if err != nil {
		return classify(resp, err, fmt.Sprintf("folder %q in %s", parent, repo.Name))
	}

	if nodeType != nodeTree {
		return fmt.Errorf("%w: folder %q in %s", entities.ErrRemoteNotFound, folderPath, repo.Name)
	}
	return nil
}

// listTree calls visit for every node of one tree level until it returns false.
// On failure the response of the failing page is returned for classification.
func (p *GitLabSourceRepository) listTree(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
	visit func(node *gl.TreeNode) bool,
) (*gl.Response, error) {
	recursive := false
	opts := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Recursive:   &recursive,
	}
	if folderPath != "" {
		opts.Path = gl.Ptr(folderPath)
	}
	if repo.Ref != "" {
		opts.Ref = gl.Ptr(repo.Ref)
	}

	for {
		nodes, resp, err := p.client.Repositories.ListTree(repo.Name, opts, gl.WithContext(ctx))
		if err != nil {
			return resp, err
		}

		for _, node := range nodes {
			if !visit(node) {
				return resp, nil
			}
		}

		if resp.NextPage == 0 {
			return resp, nil
		}
		opts.Page = resp.NextPage
	}
}

func (p *GitLabSourceRepository) GetBlob(
	ctx context.Context,
	repo entities.Repository,
	blobID string,
) (*entities.Blob, error) {
	content, resp, err := p.client.Repositories.RawBlobContent(repo.Name, blobID, gl.WithContext(ctx))
	if err != nil {
		return nil, classify(resp, err, fmt.Sprintf("blob %s in %s", blobID, repo.Name))
	}
	return &entities.Blob{ID: blobID, Content: content}, nil
}

func appendNode(folder *entities.Folder, node *gl.TreeNode) {
	switch node.Type {
	case nodeTree:
		folder.SubFolders = append(folder.SubFolders, entities.FolderEntry{
			AbsolutePath: node.Path,
			RelativePath: node.Name,
			TreeID:       node.ID,
		})
	case nodeCommit:
		folder.SubModules = append(folder.SubModules, entities.SubModuleEntry{
			AbsolutePath: node.Path,
			CommitID:     node.ID,
		})
	case nodeBlob:
		if node.Mode == modeSymlink {
			folder.SymbolicLinks = append(folder.SymbolicLinks, entities.SymbolicLinkEntry{
				AbsolutePath: node.Path,
				BlobID:       node.ID,
			})
			return
		}
		mode := entities.FileModeNormal
		if node.Mode == modeExecutable {
			mode = entities.FileModeExecutable
		}
		folder.Files = append(folder.Files, entities.FileEntry{
			AbsolutePath: node.Path,
			RelativePath: node.Name,
			BlobID:       node.ID,
			Mode:         mode,
		})
	}
}

func isEmpty(folder *entities.Folder) bool {
	return len(folder.Files) == 0 && len(folder.SubFolders) == 0 &&
		len(folder.SymbolicLinks) == 0 && len(folder.SubModules) == 0
}

func classify(resp *gl.Response, err error, what string) error {
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteNotFound, what, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteAccessDenied, what, err)
	default:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}
}
