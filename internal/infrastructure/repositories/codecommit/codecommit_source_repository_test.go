//go:build unit

package codecommit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cc "github.com/aws/aws-sdk-go-v2/service/codecommit"
	cctypes "github.com/aws/aws-sdk-go-v2/service/codecommit/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/infrastructure/repositories/codecommit"
)

type fakeAPI struct {
	folderOut   *cc.GetFolderOutput
	folderErr   error
	blobOut     *cc.GetBlobOutput
	blobErr     error
	folderCalls []*cc.GetFolderInput
	blobCalls   []*cc.GetBlobInput
}

func (f *fakeAPI) GetFolder(
	_ context.Context, params *cc.GetFolderInput, _ ...func(*cc.Options),
) (*cc.GetFolderOutput, error) {
	f.folderCalls = append(f.folderCalls, params)
	return f.folderOut, f.folderErr
}

func (f *fakeAPI) GetBlob(
	_ context.Context, params *cc.GetBlobInput, _ ...func(*cc.Options),
) (*cc.GetBlobOutput, error) {
	f.blobCalls = append(f.blobCalls, params)
	return f.blobOut, f.blobErr
}

func TestCodeCommitSourceRepositoryGetFolder(t *testing.T) {
	t.Parallel()

	t.Run("should map files, subfolders, symlinks and submodules", func(t *testing.T) {
		t.Parallel()

		// given
		api := &fakeAPI{folderOut: &cc.GetFolderOutput{
			TreeId: aws.String("t-src"),
			Files: []cctypes.File{
				{
					AbsolutePath: aws.String("src/a.txt"),
					RelativePath: aws.String("a.txt"),
					BlobId:       aws.String("b1"),
					FileMode:     cctypes.FileModeTypeEnumNormal,
				},
				{
					AbsolutePath: aws.String("src/run.sh"),
					RelativePath: aws.String("run.sh"),
					BlobId:       aws.String("b2"),
					FileMode:     cctypes.FileModeTypeEnumExecutable,
				},
			},
			SubFolders: []cctypes.Folder{
				{AbsolutePath: aws.String("src/lib"), RelativePath: aws.String("lib"), TreeId: aws.String("t-lib")},
			},
			SymbolicLinks: []cctypes.SymbolicLink{
				{AbsolutePath: aws.String("src/link"), BlobId: aws.String("b3")},
			},
			SubModules: []cctypes.SubModule{
				{AbsolutePath: aws.String("src/vendor"), CommitId: aws.String("c1")},
			},
		}}
		source := codecommit.NewSourceRepositoryWithAPI(api)

		// when
		folder, err := source.GetFolder(context.Background(), entities.Repository{Name: "R", Ref: "dev"}, "src")

		// then
		require.NoError(t, err)
		assert.Equal(t, "src", folder.Path)
		assert.Equal(t, "t-src", folder.TreeID)
		require.Len(t, folder.Files, 2)
		assert.Equal(t, entities.FileEntry{
			AbsolutePath: "src/a.txt", RelativePath: "a.txt", BlobID: "b1", Mode: entities.FileModeNormal,
		}, folder.Files[0])
		assert.Equal(t, entities.FileModeExecutable, folder.Files[1].Mode)
		assert.Equal(t, []entities.FolderEntry{
			{AbsolutePath: "src/lib", RelativePath: "lib", TreeID: "t-lib"},
		}, folder.SubFolders)
		assert.Equal(t, "src/link", folder.SymbolicLinks[0].AbsolutePath)
		assert.Equal(t, "c1", folder.SubModules[0].CommitID)

		require.Len(t, api.folderCalls, 1)
		assert.Equal(t, "R", aws.ToString(api.folderCalls[0].RepositoryName))
		assert.Equal(t, "/src", aws.ToString(api.folderCalls[0].FolderPath))
		assert.Equal(t, "dev", aws.ToString(api.folderCalls[0].CommitSpecifier))
	})

	t.Run("should request the root folder without a commit specifier when ref is empty", func(t *testing.T) {
		t.Parallel()

		// given
		api := &fakeAPI{folderOut: &cc.GetFolderOutput{}}
		source := codecommit.NewSourceRepositoryWithAPI(api)

		// when
		folder, err := source.GetFolder(context.Background(), entities.Repository{Name: "R"}, "")

		// then
		require.NoError(t, err)
		assert.Empty(t, folder.Files)
		assert.Equal(t, "/", aws.ToString(api.folderCalls[0].FolderPath))
		assert.Nil(t, api.folderCalls[0].CommitSpecifier)
	})

	t.Run("should classify service errors into the domain taxonomy", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			code string
			want error
		}{
			{"FolderDoesNotExistException", entities.ErrRemoteNotFound},
			{"RepositoryDoesNotExistException", entities.ErrRemoteNotFound},
			{"AccessDeniedException", entities.ErrRemoteAccessDenied},
			{"ExpiredTokenException", entities.ErrRemoteAccessDenied},
			{"ThrottlingException", entities.ErrRemoteTransient},
		}

		for _, tc := range cases {
			// given
			api := &fakeAPI{folderErr: &smithy.GenericAPIError{Code: tc.code, Message: "boom"}}
			source := codecommit.NewSourceRepositoryWithAPI(api)

			// when
			_, err := source.GetFolder(context.Background(), entities.Repository{Name: "R"}, "missing")

			// then
			require.Error(t, err, tc.code)
			assert.ErrorIs(t, err, tc.want, tc.code)
		}
	})

	t.Run("should treat non-API errors as transient", func(t *testing.T) {
		t.Parallel()

		// given
		api := &fakeAPI{folderErr: errors.New("connection reset")}
		source := codecommit.NewSourceRepositoryWithAPI(api)

		// when
		_, err := source.GetFolder(context.Background(), entities.Repository{Name: "R"}, "")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteTransient)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestCodeCommitSourceRepositoryGetBlob(t *testing.T) {
	t.Parallel()

	t.Run("should return the blob content unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		content := []byte{0x00, 0xff, 'h', 'i', '\n'}
		api := &fakeAPI{blobOut: &cc.GetBlobOutput{Content: content}}
		source := codecommit.NewSourceRepositoryWithAPI(api)

		// when
		blob, err := source.GetBlob(context.Background(), entities.Repository{Name: "R"}, "b1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "b1", blob.ID)
		assert.Equal(t, content, blob.Content)
		assert.Equal(t, "b1", aws.ToString(api.blobCalls[0].BlobId))
		assert.Equal(t, "R", aws.ToString(api.blobCalls[0].RepositoryName))
	})

	t.Run("should fail with not found when the blob id is unknown", func(t *testing.T) {
		t.Parallel()

		// given
		api := &fakeAPI{blobErr: &smithy.GenericAPIError{Code: "BlobIdDoesNotExistException"}}
		source := codecommit.NewSourceRepositoryWithAPI(api)

		// when
		blob, err := source.GetBlob(context.Background(), entities.Repository{Name: "R"}, "nope")

		// then
		require.ErrorIs(t, err, entities.ErrRemoteNotFound)
		assert.Nil(t, blob)
	})
}

func TestCodeCommitSourceRepositoryName(t *testing.T) {
	t.Parallel()

	t.Run("should report codecommit as its name", func(t *testing.T) {
		t.Parallel()

		// given
		source := codecommit.NewSourceRepositoryWithAPI(&fakeAPI{})

		// when
		name := source.Name()

		// then
		assert.Equal(t, entities.SourceCodeCommit, name)
	})
}
