//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/repomirror/internal/domain/commands"
	"github.com/rios0rios0/repomirror/internal/domain/entities"
)

// StubMirrorCommand is a stub implementation of commands.Mirror.
type StubMirrorCommand struct {
	ExecuteCallCount int
	ExecuteResult    entities.MirrorResult
	ExecuteErr       error
	LastOpts         entities.MirrorOptions
}

var _ commands.Mirror = (*StubMirrorCommand)(nil)

func (s *StubMirrorCommand) Execute(
	_ context.Context,
	opts entities.MirrorOptions,
) (entities.MirrorResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteResult, s.ExecuteErr
}
