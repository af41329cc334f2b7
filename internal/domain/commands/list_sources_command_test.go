//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/repomirror/internal/domain/commands"
	"github.com/rios0rios0/repomirror/internal/domain/entities"
	"github.com/rios0rios0/repomirror/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/repomirror/internal/infrastructure/repositories"
)

func TestListSourcesCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should return registered source names sorted", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewSourceRegistry()
		factory := func(context.Context, entities.SourceSettings) (repositories.SourceRepository, error) {
			return nil, nil
		}
		registry.Register("gitlab", factory)
		registry.Register("codecommit", factory)
		cmd := commands.NewListSourcesCommand(registry)

		// when
		names := cmd.Execute()

		// then
		assert.Equal(t, []string{"codecommit", "gitlab"}, names)
	})

	t.Run("should return an empty list when nothing is registered", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewListSourcesCommand(infraRepos.NewSourceRegistry())

		// when
		names := cmd.Execute()

		// then
		assert.Empty(t, names)
	})
}
