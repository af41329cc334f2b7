package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/repomirror/internal"
	"github.com/rios0rios0/repomirror/internal/infrastructure/controllers"
)

func injectAppContext() (*internal.AppInternal, *controllers.MirrorController) {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal and the root controller
	var appInternal *internal.AppInternal
	var mirrorController *controllers.MirrorController
	if err := container.Invoke(func(ai *internal.AppInternal, mc *controllers.MirrorController) {
		appInternal = ai
		mirrorController = mc
	}); err != nil {
		panic(err)
	}

	return appInternal, mirrorController
}
