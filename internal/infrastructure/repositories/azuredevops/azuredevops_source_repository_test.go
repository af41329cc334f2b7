//go:build unit

package azuredevops_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/infrastructure/repositories/azuredevops"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *azuredevops.AzureDevOpsSourceRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil

	return azuredevops.NewSourceRepositoryWithClient(entities.SourceSettings{
		Provider: entities.SourceAzureDevOps,
		BaseURL:  server.URL,
		Token:    "test-pat",
	}, client)
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestNewSourceRepository(t *testing.T) {
	t.Parallel()

	t.Run("should create a source named after the provider", func(t *testing.T) {
		t.Parallel()

		// given
		settings := entities.SourceSettings{Provider: entities.SourceAzureDevOps, BaseURL: "my-org"}

		// when
		source, err := azuredevops.NewSourceRepository(context.Background(), settings)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.SourceAzureDevOps, source.Name())
	})
}

func TestAzureDevOpsSourceRepositoryGetFolder(t *testing.T) {
	t.Parallel()

	t.Run("should list one level of the root folder by object type", func(t *testing.T) {
		t.Parallel()

		// given
		var gotPath, gotScope, gotLevel, gotVersion, gotAuth string
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotScope = r.URL.Query().Get("scopePath")
			gotLevel = r.URL.Query().Get("recursionLevel")
			gotVersion = r.URL.Query().Get("versionDescriptor.version")
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, `{"count":4,"value":[
				{"objectId":"root","gitObjectType":"tree","path":"/","isFolder":true},
				{"objectId":"b1","gitObjectType":"blob","path":"/README.md"},
				{"objectId":"t1","gitObjectType":"tree","path":"/src","isFolder":true},
				{"objectId":"c1","gitObjectType":"commit","path":"/vendor"}
			]}`)
		})

		// when
		folder, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo", Ref: "dev"}, "")

		// then
		require.NoError(t, err)
		assert.Equal(t, "/proj/_apis/git/repositories/repo/items", gotPath)
		assert.Equal(t, "/", gotScope)
		assert.Equal(t, "OneLevel", gotLevel)
		assert.Equal(t, "dev", gotVersion)
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte(":test-pat")), gotAuth)
		assert.Equal(t, "root", folder.TreeID)
		assert.Equal(t, []entities.FileEntry{
			{AbsolutePath: "README.md", RelativePath: "README.md", BlobID: "b1", Mode: entities.FileModeNormal},
		}, folder.Files)
		assert.Equal(t, []entities.FolderEntry{
			{AbsolutePath: "src", RelativePath: "src", TreeID: "t1"},
		}, folder.SubFolders)
		assert.Equal(t, []entities.SubModuleEntry{{AbsolutePath: "vendor", CommitID: "c1"}}, folder.SubModules)
	})

	t.Run("should keep repository-root paths for nested folders", func(t *testing.T) {
		t.Parallel()

		// given
		var gotScope, gotVersion string
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotScope = r.URL.Query().Get("scopePath")
			gotVersion = r.URL.Query().Get("versionDescriptor.version")
			writeJSON(w, `{"count":2,"value":[
				{"objectId":"t2","gitObjectType":"tree","path":"/src/lib","isFolder":true},
				{"objectId":"b9","gitObjectType":"blob","path":"/src/lib/b.txt"}
			]}`)
		})

		// when
		folder, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo"}, "src/lib")

		// then
		require.NoError(t, err)
		assert.Equal(t, "/src/lib", gotScope)
		assert.Empty(t, gotVersion)
		assert.Equal(t, "t2", folder.TreeID)
		require.Len(t, folder.Files, 1)
		assert.Equal(t, "src/lib/b.txt", folder.Files[0].AbsolutePath)
		assert.Equal(t, "b.txt", folder.Files[0].RelativePath)
	})

	t.Run("should reject a path that points at a file", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"count":1,"value":[{"objectId":"b1","gitObjectType":"blob","path":"/README.md"}]}`)
		})

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo"}, "README.md")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteNotFound)
	})

	t.Run("should fail with not found on 404", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo"}, "missing")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteNotFound)
	})

	t.Run("should treat the sign-in page answer as access denied", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNonAuthoritativeInfo)
			_, _ = w.Write([]byte("<html>Sign in</html>"))
		})

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo"}, "")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteAccessDenied)
	})

	t.Run("should treat server errors as transient", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "proj/repo"}, "")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteTransient)
	})

	t.Run("should reject repository names without a project", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "justrepo"}, "")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidOptions)
	})
}

func TestAzureDevOpsSourceRepositoryGetBlob(t *testing.T) {
	t.Parallel()

	t.Run("should return the raw blob bytes", func(t *testing.T) {
		t.Parallel()

		// given
		var gotPath, gotFormat string
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotFormat = r.URL.Query().Get("$format")
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("hi\n"))
		})

		// when
		blob, err := source.GetBlob(context.Background(), entities.Repository{Name: "proj/repo"}, "b1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "/proj/_apis/git/repositories/repo/blobs/b1", gotPath)
		assert.Equal(t, "octetstream", gotFormat)
		assert.Equal(t, []byte("hi\n"), blob.Content)
	})

	t.Run("should fail with not found for an unknown blob", func(t *testing.T) {
		t.Parallel()

		// given
		source := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		// when
		_, err := source.GetBlob(context.Background(), entities.Repository{Name: "proj/repo"}, "nope")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteNotFound)
	})
}
