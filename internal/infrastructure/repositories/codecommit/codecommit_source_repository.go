package codecommit

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cc "github.com/aws/aws-sdk-go-v2/service/codecommit"
	cctypes "github.com/aws/aws-sdk-go-v2/service/codecommit/types"
	"github.com/aws/smithy-go"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
)

const sourceName = "codecommit"

// API is the subset of the CodeCommit client used by the source.
type API interface {
	GetFolder(ctx context.Context, params *cc.GetFolderInput, optFns ...func(*cc.Options)) (*cc.GetFolderOutput, error)
	GetBlob(ctx context.Context, params *cc.GetBlobInput, optFns ...func(*cc.Options)) (*cc.GetBlobOutput, error)
}

// CodeCommitSourceRepository implements repositories.SourceRepository for AWS CodeCommit.
type CodeCommitSourceRepository struct {
	api API
}

// NewSourceRepository builds a CodeCommit client from the default AWS credential chain.
// The region comes from the settings and falls back to the environment/shared config.
func NewSourceRepository(
	ctx context.Context,
	settings entities.SourceSettings,
) (repositories.SourceRepository, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if settings.Region != "" {
		opts = append(opts, awsconfig.WithRegion(settings.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	var clientOpts []func(*cc.Options)
	if settings.BaseURL != "" {
		clientOpts = append(clientOpts, func(o *cc.Options) {
			o.BaseEndpoint = aws.String(settings.BaseURL)
		})
	}

	return NewSourceRepositoryWithAPI(cc.NewFromConfig(cfg, clientOpts...)), nil
}

// NewSourceRepositoryWithAPI wraps an already configured CodeCommit API.
func NewSourceRepositoryWithAPI(api API) *CodeCommitSourceRepository {
	return &CodeCommitSourceRepository{api: api}
}

func (s *CodeCommitSourceRepository) Name() string { return sourceName }

// GetFolder lists the direct children of folderPath at the repository's ref.
func (s *CodeCommitSourceRepository) GetFolder(
	ctx context.Context,
	repo entities.Repository,
	folderPath string,
) (*entities.Folder, error) {
	input := &cc.GetFolderInput{
		RepositoryName: aws.String(repo.Name),
		FolderPath:     aws.String("/" + folderPath),
	}
	if repo.Ref != "" {
		input.CommitSpecifier = aws.String(repo.Ref)
	}

	out, err := s.api.GetFolder(ctx, input)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("folder %q in %s", folderPath, repo.Name))
	}

	folder := &entities.Folder{
		Path:   folderPath,
		TreeID: aws.ToString(out.TreeId),
	}
	for _, f := range out.Files {
		folder.Files = append(folder.Files, entities.FileEntry{
			AbsolutePath: aws.ToString(f.AbsolutePath),
			RelativePath: aws.ToString(f.RelativePath),
			BlobID:       aws.ToString(f.BlobId),
			Mode:         toFileMode(f.FileMode),
		})
	}
	for _, sf := range out.SubFolders {
		folder.SubFolders = append(folder.SubFolders, entities.FolderEntry{
			AbsolutePath: aws.ToString(sf.AbsolutePath),
			RelativePath: aws.ToString(sf.RelativePath),
			TreeID:       aws.ToString(sf.TreeId),
		})
	}
	for _, l := range out.SymbolicLinks {
		folder.SymbolicLinks = append(folder.SymbolicLinks, entities.SymbolicLinkEntry{
			AbsolutePath: aws.ToString(l.AbsolutePath),
			BlobID:       aws.ToString(l.BlobId),
		})
	}
	for _, m := range out.SubModules {
		folder.SubModules = append(folder.SubModules, entities.SubModuleEntry{
			AbsolutePath: aws.ToString(m.AbsolutePath),
			CommitID:     aws.ToString(m.CommitId),
		})
	}

	return folder, nil
}

// GetBlob fetches the raw content of a blob.
func (s *CodeCommitSourceRepository) GetBlob(
	ctx context.Context,
	repo entities.Repository,
	blobID string,
) (*entities.Blob, error) {
	out, err := s.api.GetBlob(ctx, &cc.GetBlobInput{
		RepositoryName: aws.String(repo.Name),
		BlobId:         aws.String(blobID),
	})
	if err != nil {
		return nil, classify(err, fmt.Sprintf("blob %s in %s", blobID, repo.Name))
	}
	return &entities.Blob{ID: blobID, Content: out.Content}, nil
}

func toFileMode(mode cctypes.FileModeTypeEnum) entities.FileMode {
	switch mode {
	case cctypes.FileModeTypeEnumExecutable:
		return entities.FileModeExecutable
	case cctypes.FileModeTypeEnumSymlink:
		return entities.FileModeSymlink
	default:
		return entities.FileModeNormal
	}
}

// classify maps CodeCommit error codes onto the domain error taxonomy.
func classify(err error, what string) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}

	switch apiErr.ErrorCode() {
	case "RepositoryDoesNotExistException",
		"FolderDoesNotExistException",
		"BlobIdDoesNotExistException",
		"CommitDoesNotExistException":
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteNotFound, what, err)
	case "AccessDeniedException",
		"UnrecognizedClientException",
		"ExpiredTokenException",
		"EncryptionKeyAccessDeniedException":
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteAccessDenied, what, err)
	default:
		return fmt.Errorf("%w: %s: %w", entities.ErrRemoteTransient, what, err)
	}
}
