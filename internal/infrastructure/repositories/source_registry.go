package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	domainRepos "github.com/rios0rios0/repomirror/internal/domain/repositories"
)

// SourceFactory is a constructor function that creates a SourceRepository from its settings.
type SourceFactory func(ctx context.Context, settings entities.SourceSettings) (domainRepos.SourceRepository, error)

// SourceRegistry manages all registered hosting service implementations.
type SourceRegistry struct {
	sources map[string]SourceFactory
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]SourceFactory),
	}
}

// Register adds a source factory under the given name (e.g. "codecommit").
func (r *SourceRegistry) Register(name string, factory SourceFactory) {
	r.sources[name] = factory
}

// Get returns a configured source instance for the provider named in the settings.
func (r *SourceRegistry) Get(
	ctx context.Context,
	settings entities.SourceSettings,
) (domainRepos.SourceRepository, error) {
	factory, ok := r.sources[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownSource, settings.Provider)
	}
	return factory(ctx, settings)
}

// Names returns the sorted list of registered source names.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
