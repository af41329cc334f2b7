package entities

// MirrorOptions holds runtime options for a single mirror run.
type MirrorOptions struct {
	Source      SourceSettings
	Repository  Repository
	Destination string // empty means a directory named after the repository
	Folder      string // empty or "/" means the repository root
	DryRun      bool
	Verbose     bool
}

// MirrorResult summarizes a finished mirror run.
type MirrorResult struct {
	RunID                string
	Destination          string
	Folders              int
	Files                int
	Bytes                int64
	SkippedSymbolicLinks int
	SkippedSubModules    int
}
