package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/repomirror/internal/domain/commands"
	"github.com/rios0rios0/repomirror/internal/domain/entities"
)

// SourcesController handles the "sources" subcommand.
type SourcesController struct {
	command commands.ListSources
}

// NewSourcesController creates a new SourcesController.
func NewSourcesController(command commands.ListSources) *SourcesController {
	return &SourcesController{command: command}
}

// GetBind returns the Cobra command metadata for the sources controller.
func (it *SourcesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sources",
		Short: "List the hosting services repositories can be mirrored from",
	}
}

// Execute prints one source name per line.
func (it *SourcesController) Execute(cmd *cobra.Command, _ []string) error {
	for _, name := range it.command.Execute() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}
