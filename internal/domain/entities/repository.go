package entities

import (
	"path"
	"strings"
)

// Repository identifies the remote repository being mirrored.
// Name is interpreted by the source: a CodeCommit repository name,
// "owner/repo" for GitHub, a project path for GitLab or a clone URL for git.
type Repository struct {
	Name string
	Ref  string // branch, tag or commit; empty means the default branch
}

// DirectoryName returns the local directory name used when no destination is given.
func (r Repository) DirectoryName() string {
	name := strings.TrimRight(r.Name, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}

// FileMode is the kind of blob a file entry points at.
type FileMode string

const (
	FileModeNormal     FileMode = "NORMAL"
	FileModeExecutable FileMode = "EXECUTABLE"
	FileModeSymlink    FileMode = "SYMLINK"
)

// Permissions returns the local permission bits for a file of this mode.
func (m FileMode) Permissions() uint32 {
	if m == FileModeExecutable {
		return 0o755
	}
	return 0o644
}

// FileEntry is one file in a folder listing.
type FileEntry struct {
	AbsolutePath string // relative to the repository root
	RelativePath string // relative to the listed folder
	BlobID       string
	Mode         FileMode
	TreeID       string
}

// FolderEntry is one sub-folder in a folder listing.
type FolderEntry struct {
	AbsolutePath string
	RelativePath string
	TreeID       string
}

// SymbolicLinkEntry is a symbolic link in a folder listing. Links are not mirrored.
type SymbolicLinkEntry struct {
	AbsolutePath string
	BlobID       string
}

// SubModuleEntry is a submodule in a folder listing. Submodules are not mirrored.
type SubModuleEntry struct {
	AbsolutePath string
	CommitID     string
}

// Folder is the complete listing of one remote folder.
type Folder struct {
	Path          string
	TreeID        string
	Files         []FileEntry
	SubFolders    []FolderEntry
	SymbolicLinks []SymbolicLinkEntry
	SubModules    []SubModuleEntry
}

// Blob is the content of a file fetched by its identifier.
type Blob struct {
	ID      string
	Content []byte
}

// NormalizeFolder turns a user supplied folder path into the repository-relative
// form used by sources. The repository root is the empty string.
func NormalizeFolder(folder string) string {
	cleaned := strings.Trim(strings.TrimSpace(folder), "/")
	if cleaned == "" {
		return ""
	}
	cleaned = path.Clean(cleaned)
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// JoinPath joins a folder and an entry name into a repository-relative path.
func JoinPath(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
