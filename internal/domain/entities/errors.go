package entities

import "errors"

var (
	// ErrRemoteNotFound is returned when a repository, folder, ref or blob does not exist.
	ErrRemoteNotFound = errors.New("remote entry not found")
	// ErrRemoteAccessDenied is returned on credential or permission failures.
	ErrRemoteAccessDenied = errors.New("remote access denied")
	// ErrRemoteTransient is returned for network and service failures.
	ErrRemoteTransient = errors.New("remote service error")
	// ErrFilesystem is returned when a local directory or file cannot be written.
	ErrFilesystem = errors.New("filesystem error")
	// ErrUnknownSource is returned when no source is registered under a name.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidOptions is returned when the mirror options are incomplete.
	ErrInvalidOptions = errors.New("invalid options")
)
