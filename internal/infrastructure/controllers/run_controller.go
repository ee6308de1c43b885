package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"adobulk/internal/domain/commands"
	"adobulk/internal/domain/entities"
)

// RunController handles the "run" subcommand (the full bulk update cycle).
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Run the bulk find-and-replace cycle",
		Long: `Search the configured projects and repositories for every
configured string, rewrite matching files on a work branch, and open (or
reuse) one pull request per repository for the changes.

This is the main command intended to be used for a bulk update.
It reads the settings file, searches each configured scope, and
reconciles every match idempotently: re-running it creates no
duplicate branches, commits, or pull requests.`,
	}
}

// Execute runs the bulk update cycle. Collaborator failures are fatal: the
// process logs the error and exits with a non-zero status.
func (it *RunController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settingsPath, _ := cmd.Flags().GetString("settings")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if settingsPath == "" {
		var err error
		settingsPath, err = entities.FindSettingsFile()
		if err != nil {
			logger.Fatalf(
				"no settings file found: %v\nSpecify one with --settings or create settings.yaml",
				err,
			)
		}
	}

	logger.Infof("Using settings file: %s", settingsPath)

	settings, err := entities.NewSettings(settingsPath)
	if err != nil {
		logger.Fatalf("failed to load settings: %v", err)
	}

	logger.Info("Starting bulk update run...")

	if runErr := it.command.Execute(ctx, settings, commands.RunOptions{
		DryRun:  dryRun,
		Verbose: verbose,
	}); runErr != nil {
		logger.Fatalf("Run failed: %v", runErr)
	}
}
