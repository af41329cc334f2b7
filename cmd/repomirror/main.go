package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repomirror/internal"
	"github.com/rios0rios0/repomirror/internal/infrastructure/controllers"
)

func buildRootCommand(mirrorController *controllers.MirrorController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "repomirror <repository>",
		Short: "Mirror a remote repository tree to the local filesystem",
		Long: `Recursively download the files and folders of a repository hosted on a
managed source-control service and write them to a local directory.

Supports AWS CodeCommit (default), GitHub, GitLab and any git remote.

Usage modes:
  repomirror my-repo                         Mirror a CodeCommit repository into ./my-repo
  repomirror my-repo --folder src --dest out Mirror only src/ into ./out/src
  repomirror owner/repo -p github            Mirror a GitHub repository
  repomirror sources                         List the supported sources`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 {
				return command.Help()
			}
			return mirrorController.Execute(command, args)
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to settings file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"Auth token for the source (overrides settings file and env var detection)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"List what would be mirrored without fetching or writing anything")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	mirrorController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if mc, ok := ctrl.(*controllers.MirrorController); ok {
			mc.AddFlags(subCmd)
			subCmd.Args = cobra.ExactArgs(1)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext, mirrorController := injectAppContext()
	cobraRoot := buildRootCommand(mirrorController)

	// Add all subcommands
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'repomirror': %s", err)
	}
}
