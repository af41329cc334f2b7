package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const (
	sourceName = "github"
	headRef    = "HEAD"

	modeExecutable = "100755"
	modeSymlink    = "120000"
	modeSubmodule  = "160000"
	typeTree       = "tree"
)

// GitHubSourceRepository implements repositories.SourceRepository on the GitHub git data API.
// Repository names are given as "owner/repo".
type GitHubSourceRepository struct {
	client *gh.Client
}

// NewSourceRepository creates a GitHub source. BaseURL points it at a GitHub Enterprise
// API root (e.g. https://ghe.example.com/api/v3/).
func NewSourceRepository(
	_ context.Context,
	settings entities.SourceSettings,
) (repositories.SourceRepository, error) {
	client := gh.NewClient(nil)
	if settings.Token != "" {
		client = client.WithAuthToken(settings.Token)
	}

	if settings.BaseURL != "" {
		base := settings.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid GitHub base URL %q: %w", entities.ErrInvalidOptions, settings.BaseURL, err)
		}
		client.BaseURL = parsed
	}

	return &GitHubSourceRepository{client: client}, nil
}

func (p *GitHubSourceRepository) Name() string { return sourceName }

// GetFolder lists one tree level. The tree is addressed as "<ref>:<path>" so
// entry modes survive, which the contents API hides.
func (p *GitHubSourceRepository) GetFolder(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
) (*entities.Folder, error) {
	owner, name, err := splitRepository(repo.Name)
	if err != nil {
		return nil, err
	}

	tree, resp, err := p.client.Git.GetTree(ctx, owner, name, treeExpression(repo.Ref, folderPath), false)
	if err != nil {
		return nil, classify(resp, err, fmt.Sprintf("folder %q in %s", folderPath, repo.Name))
	}
	if tree.GetTruncated() {
		return nil, fmt.Errorf("%w: listing of folder %q in %s was truncated", entities.ErrRemoteTransient, folderPath, repo.Name)
	}

	folder := &entities.Folder{Path: folderPath, TreeID: tree.GetSHA()}
	for _, entry := range tree.Entries {
		absolute := entities.JoinPath(folderPath, entry.GetPath())

		switch {
		case entry.GetMode() == modeSubmodule:
			folder.SubModules = append(folder.SubModules, entities.SubModuleEntry{
				AbsolutePath: absolute,
				CommitID:     entry.GetSHA(),
			})
		case entry.GetMode() == modeSymlink:
			folder.SymbolicLinks = append(folder.SymbolicLinks, entities.SymbolicLinkEntry{
				AbsolutePath: absolute,
				BlobID:       entry.GetSHA(),
			})
		case entry.GetType() == typeTree:
			folder.SubFolders = append(folder.SubFolders, entities.FolderEntry{
				AbsolutePath: absolute,
				RelativePath: entry.GetPath(),
				TreeID:       entry.GetSHA(),
			})
		default:
			mode := entities.FileModeNormal
			if entry.GetMode() == modeExecutable {
				mode = entities.FileModeExecutable
			}
			folder.Files = append(folder.Files, entities.FileEntry{
				AbsolutePath: absolute,
				RelativePath: entry.GetPath(),
				BlobID:       entry.GetSHA(),
				Mode:         mode,
				TreeID:       tree.GetSHA(),
			})
		}
	}

	return folder, nil
}

func (p *GitHubSourceRepository) GetBlob(
	ctx context.Context,
	repo entities.Repository,
	blobID string,
) (*entities.Blob, error) {
	owner, name, err := splitRepository(repo.Name)
	if err != nil {
		return nil, err
	}

	content, resp, err := p.client.Git.GetBlobRaw(ctx, owner, name, blobID)
	if err != nil {
		return nil, classify(resp, err, fmt.Sprintf("blob %s in %s", blobID, repo.Name))
	}
	return &entities.Blob{ID: blobID, Content: content}, nil
}

// treeExpression builds the "<ref>:<path>" revision naming a folder's tree.
func treeExpression(ref, folderPath string) string {
	if ref == "" {
		ref = headRef
	}
	if folderPath == "" {
		return ref
	}
	return ref + ":" + folderPath
}

func splitRepository(fullName string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.Trim(fullName, "/"), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: GitHub repository must be \"owner/repo\", got %q", entities.ErrInvalidOptions, fullName)
	}
	return owner, strings.TrimSuffix(name, ".git"), nil
}

func classify(resp *gh.Response, err error, what string) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}

	switch resp.StatusCode {
	// 422 comes back when a tree expression resolves to a blob
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteNotFound, what, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteAccessDenied, what, err)
	default:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}
}
