//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// FolderBuilder helps create folder listings with a fluent interface.
// Entry paths are given relative to the repository root.
type FolderBuilder struct {
	*testkit.BaseBuilder
	path          string
	treeID        string
	files         []entities.FileEntry
	subFolders    []entities.FolderEntry
	symbolicLinks []entities.SymbolicLinkEntry
	subModules    []entities.SubModuleEntry
}

// NewFolderBuilder creates a builder for the repository root listing.
func NewFolderBuilder() *FolderBuilder {
	return &FolderBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		treeID:      "test-tree",
	}
}

// WithPath sets the folder path.
func (b *FolderBuilder) WithPath(folderPath string) *FolderBuilder {
	b.path = folderPath
	return b
}

// WithTreeID sets the tree id.
func (b *FolderBuilder) WithTreeID(treeID string) *FolderBuilder {
	b.treeID = treeID
	return b
}

// WithFile adds a normal file entry.
func (b *FolderBuilder) WithFile(absolutePath, blobID string) *FolderBuilder {
	return b.WithFileMode(absolutePath, blobID, entities.FileModeNormal)
}

// WithFileMode adds a file entry with an explicit mode.
func (b *FolderBuilder) WithFileMode(absolutePath, blobID string, mode entities.FileMode) *FolderBuilder {
	b.files = append(b.files, entities.FileEntry{
		AbsolutePath: absolutePath,
		RelativePath: path.Base(absolutePath),
		BlobID:       blobID,
		Mode:         mode,
		TreeID:       b.treeID,
	})
	return b
}

// WithSubFolder adds a subfolder entry.
func (b *FolderBuilder) WithSubFolder(absolutePath string) *FolderBuilder {
	b.subFolders = append(b.subFolders, entities.FolderEntry{
		AbsolutePath: absolutePath,
		RelativePath: path.Base(absolutePath),
		TreeID:       "tree-" + absolutePath,
	})
	return b
}

// WithSymbolicLink adds a symbolic link entry.
func (b *FolderBuilder) WithSymbolicLink(absolutePath string) *FolderBuilder {
	b.symbolicLinks = append(b.symbolicLinks, entities.SymbolicLinkEntry{
		AbsolutePath: absolutePath,
		BlobID:       "link-" + absolutePath,
	})
	return b
}

// WithSubModule adds a submodule entry.
func (b *FolderBuilder) WithSubModule(absolutePath string) *FolderBuilder {
	b.subModules = append(b.subModules, entities.SubModuleEntry{
		AbsolutePath: absolutePath,
		CommitID:     "commit-" + absolutePath,
	})
	return b
}

// Build creates the folder (satisfies testkit.Builder interface).
func (b *FolderBuilder) Build() interface{} {
	return b.BuildFolder()
}

// BuildFolder creates the folder with a concrete return type.
func (b *FolderBuilder) BuildFolder() *entities.Folder {
	return &entities.Folder{
		Path:          b.path,
		TreeID:        b.treeID,
		Files:         append([]entities.FileEntry(nil), b.files...),
		SubFolders:    append([]entities.FolderEntry(nil), b.subFolders...),
		SymbolicLinks: append([]entities.SymbolicLinkEntry(nil), b.symbolicLinks...),
		SubModules:    append([]entities.SubModuleEntry(nil), b.subModules...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *FolderBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.path = ""
	b.treeID = "test-tree"
	b.files = nil
	b.subFolders = nil
	b.symbolicLinks = nil
	b.subModules = nil
	return b
}

// Clone creates a deep copy of the FolderBuilder.
func (b *FolderBuilder) Clone() testkit.Builder {
	return &FolderBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		path:          b.path,
		treeID:        b.treeID,
		files:         append([]entities.FileEntry(nil), b.files...),
		subFolders:    append([]entities.FolderEntry(nil), b.subFolders...),
		symbolicLinks: append([]entities.SymbolicLinkEntry(nil), b.symbolicLinks...),
		subModules:    append([]entities.SubModuleEntry(nil), b.subModules...),
	}
}
