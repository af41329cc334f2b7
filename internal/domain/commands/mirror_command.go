package commands

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repomirror/internal/infrastructure/repositories"
)

// Mirror is the interface for the mirror command.
type Mirror interface {
	Execute(ctx context.Context, opts entities.MirrorOptions) (entities.MirrorResult, error)
}

// MirrorCommand walks a remote repository folder by folder and writes every
// file it finds under the destination directory.
type MirrorCommand struct {
	sourceRegistry *infraRepos.SourceRegistry
	filesystem     repositories.FilesystemRepository
}

// NewMirrorCommand creates a new MirrorCommand.
func NewMirrorCommand(
	sourceRegistry *infraRepos.SourceRegistry,
	filesystem repositories.FilesystemRepository,
) *MirrorCommand {
	return &MirrorCommand{
		sourceRegistry: sourceRegistry,
		filesystem:     filesystem,
	}
}

// Execute mirrors opts.Folder (the repository root when empty) into the destination.
// The first failure aborts the run; files already written are left in place.
func (it *MirrorCommand) Execute(
	ctx context.Context,
	opts entities.MirrorOptions,
) (entities.MirrorResult, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	result := entities.MirrorResult{RunID: uuid.NewString()}
	log := logger.WithField("run", result.RunID)

	if strings.TrimSpace(opts.Repository.Name) == "" {
		return result, fmt.Errorf("%w: repository name is required", entities.ErrInvalidOptions)
	}

	destination := opts.Destination
	if destination == "" {
		destination = opts.Repository.DirectoryName()
	}
	if destination == "" {
		return result, fmt.Errorf(
			"%w: cannot derive a destination from %q", entities.ErrInvalidOptions, opts.Repository.Name,
		)
	}
	result.Destination = destination

	folder := entities.NormalizeFolder(opts.Folder)
	if !isSafeRelative(folder) {
		return result, fmt.Errorf("%w: folder %q escapes the repository root", entities.ErrInvalidOptions, opts.Folder)
	}

	settings := opts.Source
	if settings.Provider == "" {
		settings.Provider = entities.DefaultSource
	}
	source, err := it.sourceRegistry.Get(ctx, settings)
	if err != nil {
		return result, fmt.Errorf("failed to initialize source: %w", err)
	}

	log.Infof("Mirroring %s (%s) from %s into %q", opts.Repository.Name, refLabel(opts.Repository.Ref),
		source.Name(), destination)
	if opts.DryRun {
		log.Info("[DRY RUN] No blobs will be fetched and nothing will be written")
	}

	worklist := []string{folder}
	for len(worklist) > 0 {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		subFolders, copyErr := it.copyFolder(ctx, log, source, opts, destination, current, &result)
		if copyErr != nil {
			return result, copyErr
		}
		worklist = append(worklist, subFolders...)
	}

	log.Infof("Mirrored %d folder(s), %d file(s), %d byte(s) into %q",
		result.Folders, result.Files, result.Bytes, destination)
	return result, nil
}

// copyFolder creates the local directory, lists the remote folder, copies its
// files and returns the sub-folders still to visit.
func (it *MirrorCommand) copyFolder(
	ctx context.Context,
	log *logger.Entry,
	source repositories.SourceRepository,
	opts entities.MirrorOptions,
	destination string,
	folder string,
	result *entities.MirrorResult,
) ([]string, error) {
	dir, err := localPath(destination, folder)
	if err != nil {
		return nil, err
	}

	log.Infof("Creating directory: %s", dir)
	if !opts.DryRun {
		if err = it.filesystem.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	log.Infof("Copying folder: /%s", folder)
	listing, err := source.GetFolder(ctx, opts.Repository, folder)
	if err != nil {
		return nil, fmt.Errorf("listing folder %q: %w", "/"+folder, err)
	}
	result.Folders++

	for _, file := range listing.Files {
		if err = it.copyFile(ctx, log, source, opts, destination, file, result); err != nil {
			return nil, err
		}
	}

	for _, link := range listing.SymbolicLinks {
		log.Warnf("Skipping symbolic link: %s", link.AbsolutePath)
		result.SkippedSymbolicLinks++
	}
	for _, module := range listing.SubModules {
		log.Warnf("Skipping submodule: %s (commit %s)", module.AbsolutePath, module.CommitID)
		result.SkippedSubModules++
	}

	subFolders := make([]string, 0, len(listing.SubFolders))
	for _, sub := range listing.SubFolders {
		subFolders = append(subFolders, sub.AbsolutePath)
	}
	return subFolders, nil
}

func (it *MirrorCommand) copyFile(
	ctx context.Context,
	log *logger.Entry,
	source repositories.SourceRepository,
	opts entities.MirrorOptions,
	destination string,
	file entities.FileEntry,
	result *entities.MirrorResult,
) error {
	target, err := localPath(destination, file.AbsolutePath)
	if err != nil {
		return err
	}

	log.Infof("Copying file: %s", target)
	if opts.DryRun {
		result.Files++
		return nil
	}

	blob, err := source.GetBlob(ctx, opts.Repository, file.BlobID)
	if err != nil {
		return fmt.Errorf("fetching blob %s for %q: %w", file.BlobID, file.AbsolutePath, err)
	}

	if err = it.filesystem.WriteFile(target, blob.Content, os.FileMode(file.Mode.Permissions())); err != nil {
		return fmt.Errorf("writing file %q: %w", target, err)
	}

	result.Files++
	result.Bytes += int64(len(blob.Content))
	log.Debugf("Wrote %d byte(s) to %s", len(blob.Content), target)
	return nil
}

// localPath joins a repository-relative path onto the destination, refusing
// paths that would land outside of it.
func localPath(destination, relative string) (string, error) {
	if relative == "" {
		return destination, nil
	}
	cleaned := path.Clean(relative)
	if !isSafeRelative(cleaned) {
		return "", fmt.Errorf("%w: remote path %q escapes destination %q", entities.ErrFilesystem, relative, destination)
	}
	return filepath.Join(destination, filepath.FromSlash(cleaned)), nil
}

func isSafeRelative(p string) bool {
	if p == "" {
		return true
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return false
	}
	return p != ".." && !strings.HasPrefix(p, "../")
}

func refLabel(ref string) string {
	if ref == "" {
		return "default branch"
	}
	return ref
}
