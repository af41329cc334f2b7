package commands

// LocalPath exports localPath for testing.
var LocalPath = localPath //nolint:gochecknoglobals // test export
