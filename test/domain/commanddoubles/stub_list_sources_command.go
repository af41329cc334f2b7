//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/repomirror/internal/domain/commands"
)

// StubListSourcesCommand is a stub implementation of commands.ListSources.
type StubListSourcesCommand struct {
	ExecuteCallCount int
	Names            []string
}

var _ commands.ListSources = (*StubListSourcesCommand)(nil)

func (s *StubListSourcesCommand) Execute() []string {
	s.ExecuteCallCount++
	return s.Names
}
