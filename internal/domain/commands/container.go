package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	if err := container.Provide(NewMirrorCommand); err != nil {
		return err
	}
	if err := container.Provide(NewListSourcesCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *MirrorCommand) Mirror {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ListSourcesCommand) ListSources {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
