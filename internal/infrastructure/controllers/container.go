package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewMirrorController); err != nil {
		return err
	}
	if err := container.Provide(NewSourcesController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	mirrorController *MirrorController,
	sourcesController *SourcesController,
) *[]entities.Controller {
	return &[]entities.Controller{
		mirrorController,
		sourcesController,
	}
}
