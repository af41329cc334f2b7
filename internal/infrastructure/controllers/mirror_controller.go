package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repomirror/internal/domain/commands"
	"github.com/rios0rios0/repomirror/internal/domain/entities"
)

// MirrorController handles the root command and the "mirror" subcommand.
type MirrorController struct {
	command commands.Mirror
}

// NewMirrorController creates a new MirrorController.
func NewMirrorController(command commands.Mirror) *MirrorController {
	return &MirrorController{command: command}
}

// GetBind returns the Cobra command metadata for the mirror controller.
func (it *MirrorController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "mirror <repository>",
		Short: "Download a remote repository tree into a local directory",
		Long: `Walk a remote repository folder by folder and write every file
it contains under the destination directory.

The repository argument depends on the source:
  codecommit  the repository name
  github      owner/repo
  gitlab      the project path (group/subgroup/project)
  git         a clone URL

Symbolic links and submodules are reported and skipped.`,
	}
}

// Execute runs a single mirror.
func (it *MirrorController) Execute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: a repository argument is required", entities.ErrInvalidOptions)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	destination, _ := cmd.Flags().GetString("dest")
	folder, _ := cmd.Flags().GetString("folder")
	ref, _ := cmd.Flags().GetString("ref")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	result, err := it.command.Execute(context.Background(), entities.MirrorOptions{
		Source:      settings.Source,
		Repository:  entities.Repository{Name: args[0], Ref: ref},
		Destination: destination,
		Folder:      folder,
		DryRun:      dryRun,
		Verbose:     verbose,
	})
	if err != nil {
		return fmt.Errorf("mirror of %q failed: %w", args[0], err)
	}

	if result.SkippedSymbolicLinks > 0 || result.SkippedSubModules > 0 {
		logger.Warnf("Skipped %d symbolic link(s) and %d submodule(s)",
			result.SkippedSymbolicLinks, result.SkippedSubModules)
	}
	return nil
}

// AddFlags adds the mirror-specific flags to the given Cobra command.
func (it *MirrorController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dest", "d", "",
		"Destination directory (default: a directory named after the repository)")
	cmd.Flags().StringP("folder", "f", "",
		"Remote folder to start from (default: repository root)")
	cmd.Flags().String("ref", "",
		"Branch, tag or commit to mirror (default: the default branch)")
	cmd.Flags().StringP("provider", "p", "",
		fmt.Sprintf("Source to read from (%s, %s, %s, %s, %s; default: %s)",
			entities.SourceCodeCommit, entities.SourceGitHub, entities.SourceGitLab, entities.SourceGit,
			entities.SourceAzureDevOps, entities.DefaultSource))
	cmd.Flags().String("region", "", "AWS region for CodeCommit")
	cmd.Flags().String("base-url", "", "API base URL for self-hosted GitHub/GitLab, an Azure DevOps organization or a CodeCommit endpoint")
}

// loadSettings reads the settings file (explicit or auto-detected) and applies
// the command-line overrides on top of it.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")

	settings := entities.DefaultSettings()
	if configPath == "" {
		if found, findErr := entities.FindConfigFile(); findErr == nil {
			configPath = found
		} else {
			logger.Debugf("No settings file found, using defaults: %v", findErr)
		}
	}
	if configPath != "" {
		logger.Infof("Using settings file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = loaded
	}

	overrides := map[string]*string{
		"provider": &settings.Source.Provider,
		"region":   &settings.Source.Region,
		"base-url": &settings.Source.BaseURL,
		"token":    &settings.Source.Token,
	}
	for name, target := range overrides {
		if value, _ := cmd.Flags().GetString(name); value != "" {
			*target = value
		}
	}

	if settings.Source.Token == "" {
		settings.Source.Token = entities.TokenFromEnv(settings.Source.Provider)
	}

	return settings, nil
}
