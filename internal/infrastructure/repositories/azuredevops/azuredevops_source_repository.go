package azuredevops

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const (
	sourceName = "azuredevops"
	apiVersion = "7.0"
	cloudHost  = "https://dev.azure.com/"

	objectBlob   = "blob"
	objectTree   = "tree"
	objectCommit = "commit"

	requestTimeout = 30 * time.Second
	retryMax       = 3
)

// RepositoryItem is one entry of an items listing.
type RepositoryItem struct {
	ObjectID      string `json:"objectId"`
	GitObjectType string `json:"gitObjectType"`
	CommitID      string `json:"commitId"`
	Path          string `json:"path"`
	IsFolder      bool   `json:"isFolder"`
}

// AzureDevOpsSourceRepository implements repositories.SourceRepository on the Azure DevOps Git REST API.
// With an organization in BaseURL, repositories are named "project/repo";
// without one they are named "organization/project/repo".
type AzureDevOpsSourceRepository struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
}

// NewSourceRepository creates an Azure DevOps source with a retrying HTTP client.
func NewSourceRepository(
	_ context.Context,
	settings entities.SourceSettings,
) (repositories.SourceRepository, error) {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = leveledLogger{entry: logger.WithField("source", sourceName)}

	return NewSourceRepositoryWithClient(settings, client), nil
}

// NewSourceRepositoryWithClient creates an Azure DevOps source over a caller supplied client.
// Status codes are classified here, so the client's error handler is replaced.
func NewSourceRepositoryWithClient(
	settings entities.SourceSettings,
	client *retryablehttp.Client,
) *AzureDevOpsSourceRepository {
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &AzureDevOpsSourceRepository{
		baseURL:    normalizeOrganization(settings.BaseURL),
		token:      settings.Token,
		httpClient: client,
	}
}

func (c *AzureDevOpsSourceRepository) Name() string { return sourceName }

// GetFolder lists one level of folderPath. The listing echoes the scope item
// first, which is how a path naming a file is detected.
func (c *AzureDevOpsSourceRepository) GetFolder(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
) (*entities.Folder, error) {
	base, project, name, err := c.locate(repo.Name)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("scopePath", "/"+folderPath)
	query.Set("recursionLevel", "OneLevel")
	query.Set("api-version", apiVersion)
	if repo.Ref != "" {
		query.Set("versionDescriptor.version", repo.Ref)
	}
	endpoint := fmt.Sprintf("%s/%s/_apis/git/repositories/%s/items?%s",
		base, url.PathEscape(project), url.PathEscape(name), query.Encode())

	what := fmt.Sprintf("folder %q in %s", folderPath, repo.Name)
	body, err := c.doRequest(ctx, endpoint, what)
	if err != nil {
		return nil, err
	}

	var result struct {
		Value []RepositoryItem `json:"value"`
		Count int              `json:"count"`
	}
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse items response for %s: %w", entities.ErrRemoteTransient, what, err)
	}

	folder := &entities.Folder{Path: folderPath}
	for _, item := range result.Value {
		relative := strings.TrimPrefix(item.Path, "/")
		if relative == folderPath {
			if item.GitObjectType != objectTree {
				return nil, fmt.Errorf("%w: path %q is a file, not a folder", entities.ErrRemoteNotFound, folderPath)
			}
			folder.TreeID = item.ObjectID
			continue
		}

		switch item.GitObjectType {
		case objectTree:
			folder.SubFolders = append(folder.SubFolders, entities.FolderEntry{
				AbsolutePath: relative,
				RelativePath: path.Base(relative),
				TreeID:       item.ObjectID,
			})
		case objectCommit:
			folder.SubModules = append(folder.SubModules, entities.SubModuleEntry{
				AbsolutePath: relative,
				CommitID:     item.ObjectID,
			})
		case objectBlob:
			folder.Files = append(folder.Files, entities.FileEntry{
				AbsolutePath: relative,
				RelativePath: path.Base(relative),
				BlobID:       item.ObjectID,
				Mode:         entities.FileModeNormal,
			})
		default:
			logger.Debugf("Ignoring %s item %q", item.GitObjectType, item.Path)
		}
	}

	return folder, nil
}

func (c *AzureDevOpsSourceRepository) GetBlob(
	ctx context.Context,
	repo entities.Repository,
	blobID string,
) (*entities.Blob, error) {
	base, project, name, err := c.locate(repo.Name)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("$format", "octetstream")
	query.Set("api-version", apiVersion)
	endpoint := fmt.Sprintf("%s/%s/_apis/git/repositories/%s/blobs/%s?%s",
		base, url.PathEscape(project), url.PathEscape(name), url.PathEscape(blobID), query.Encode())

	content, err := c.doRequest(ctx, endpoint, fmt.Sprintf("blob %s in %s", blobID, repo.Name))
	if err != nil {
		return nil, err
	}
	return &entities.Blob{ID: blobID, Content: content}, nil
}

// locate splits the repository name into the organization URL, project and repository.
func (c *AzureDevOpsSourceRepository) locate(fullName string) (string, string, string, error) {
	parts := strings.Split(strings.Trim(fullName, "/"), "/")
	base := c.baseURL
	if base == "" && len(parts) == 3 { //nolint:mnd // organization/project/repo
		base = normalizeOrganization(parts[0])
		parts = parts[1:]
	}

	if base == "" || len(parts) != 2 || parts[0] == "" || parts[1] == "" { //nolint:mnd // project/repo
		return "", "", "", fmt.Errorf(
			"%w: Azure DevOps repository must be \"project/repo\" with an organization base URL, "+
				"or \"organization/project/repo\", got %q", entities.ErrInvalidOptions, fullName)
	}
	return base, parts[0], parts[1], nil
}

func (c *AzureDevOpsSourceRepository) doRequest(ctx context.Context, endpoint, what string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request for %s: %w", entities.ErrInvalidOptions, what, err)
	}

	// Basic auth with an empty user and the PAT as password
	auth := base64.StdEncoding.EncodeToString([]byte(":" + c.token))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("%w: %s: request failed: %w", entities.ErrRemoteTransient, what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to read response: %w", entities.ErrRemoteTransient, what, err)
	}

	if classified := classify(resp.StatusCode, what); classified != nil {
		logger.Debugf("Azure DevOps answered %d: %s", resp.StatusCode, string(body))
		return nil, classified
	}
	return body, nil
}

// classify maps a status code onto the error taxonomy. A rejected PAT is answered
// with 203 and a sign-in page instead of 401.
func classify(status int, what string) error {
	switch {
	case status == http.StatusNonAuthoritativeInfo,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden:
		return fmt.Errorf("%w: %s (status %d)", entities.ErrRemoteAccessDenied, what, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s (status %d)", entities.ErrRemoteNotFound, what, status)
	case status < 200 || status >= 300:
		return fmt.Errorf("%w: %s (status %d)", entities.ErrRemoteTransient, what, status)
	default:
		return nil
	}
}

func normalizeOrganization(organization string) string {
	org := strings.TrimSuffix(strings.TrimSpace(organization), "/")
	if org == "" {
		return ""
	}
	if !strings.HasPrefix(org, "https://") && !strings.HasPrefix(org, "http://") {
		org = cloudHost + org
	}
	return org
}

// leveledLogger routes retry logging through logrus.
type leveledLogger struct {
	entry *logger.Entry
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	out := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
