package commands

import (
	infraRepos "github.com/rios0rios0/repomirror/internal/infrastructure/repositories"
)

// ListSources is the interface for the command listing the available sources.
type ListSources interface {
	Execute() []string
}

// ListSourcesCommand reports which hosting services can be mirrored from.
type ListSourcesCommand struct {
	sourceRegistry *infraRepos.SourceRegistry
}

// NewListSourcesCommand creates a new ListSourcesCommand.
func NewListSourcesCommand(sourceRegistry *infraRepos.SourceRegistry) *ListSourcesCommand {
	return &ListSourcesCommand{sourceRegistry: sourceRegistry}
}

// Execute returns the registered source names in sorted order.
func (it *ListSourcesCommand) Execute() []string {
	return it.sourceRegistry.Names()
}
