package repositories

import (
	"github.com/spf13/afero"
	"go.uber.org/dig"

	"github.com/rios0rios0/repomirror/internal/domain/entities"
	domainRepos "github.com/rios0rios0/repomirror/internal/domain/repositories"
	adoRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/azuredevops"
	ccRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/codecommit"
	fsRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/filesystem"
	ghRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/gitlab"
	gitRepo "github.com/rios0rios0/repomirror/internal/infrastructure/repositories/gitremote"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register source registry with all hosting service factories
	if err := container.Provide(func() *SourceRegistry {
		reg := NewSourceRegistry()
		reg.Register(entities.SourceCodeCommit, ccRepo.NewSourceRepository)
		reg.Register(entities.SourceGitHub, ghRepo.NewSourceRepository)
		reg.Register(entities.SourceGitLab, glRepo.NewSourceRepository)
		reg.Register(entities.SourceGit, gitRepo.NewSourceRepository)
		reg.Register(entities.SourceAzureDevOps, adoRepo.NewSourceRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register the local filesystem sink
	if err := container.Provide(func() domainRepos.FilesystemRepository {
		return fsRepo.NewFilesystemRepository(afero.NewOsFs())
	}); err != nil {
		return err
	}

	return nil
}
