package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	logger "github.com/sirupsen/logrus"

	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
)

// Run is the interface for the run command (full bulk update cycle).
type Run interface {
	Execute(ctx context.Context, settings *entities.Settings, opts RunOptions) error
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun  bool // CLI override; ORed with the settings flag
	Verbose bool
}

// RunCommand drives the full bulk update flow: for every configured
// (project, repositories) pair and replacement rule it issues one code
// search and reconciles every match, accumulating a deduplicated summary of
// pull-request URLs.
type RunCommand struct {
	factory   repositories.CollaboratorFactory
	reconcile Reconcile
}

// NewRunCommand creates a new RunCommand.
func NewRunCommand(factory repositories.CollaboratorFactory, reconcile Reconcile) *RunCommand {
	return &RunCommand{
		factory:   factory,
		reconcile: reconcile,
	}
}

// Execute runs the full bulk update cycle using the provided settings.
// A code-search failure aborts the run: a broken search session makes every
// subsequent result untrustworthy.
func (it *RunCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts RunOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	dryRun := settings.DryRun || opts.DryRun

	collab, err := it.factory.Connect(settings)
	if err != nil {
		return fmt.Errorf("failed to connect to %q: %w", settings.OrganizationName, err)
	}

	var summary []string
	seen := make(map[string]bool)

	for _, scope := range settings.EffectiveScope() {
		var projectFilter []string
		if scope.Project != "" {
			projectFilter = []string{scope.Project}
		}

		for _, rule := range settings.StringsToReplace {
			logger.Infof("Searching for %q...", rule.Old)

			matches, searchErr := collab.Search.FindCode(ctx, rule.Old, projectFilter, scope.Repos)
			if searchErr != nil {
				logger.Errorf(
					"An error occurred while fetching code search results\n"+
						"Project: %s\nRepositories: %s\nOrganization: %s\nError message: %v",
					displayProject(scope.Project), displayRepos(scope.Repos),
					settings.OrganizationName, searchErr,
				)
				return fmt.Errorf("code search for %q failed: %w", rule.Old, searchErr)
			}

			if len(matches) == 0 {
				// Display-only fallback; the iteration scope stays untouched.
				logger.Infof(
					"No results found for the search string %q in project %s and repositories %s",
					rule.Old, displayProject(scope.Project), displayRepos(scope.Repos),
				)
				continue
			}

			for _, match := range matches {
				logger.Infof(
					"Found %q in project %q and repository %q at %q",
					rule.Old, match.Project.Name, match.Repository.Name, match.Path,
				)

				if dryRun {
					continue
				}

				logger.Infof("Replacing %q with %q", rule.Old, rule.New)

				prURL, reconcileErr := it.reconcile.Execute(ctx, collab, settings, match, rule)
				if reconcileErr != nil {
					logger.Errorf(
						"Failed to update %q in %s/%s: %v",
						match.Path, match.Project.Name, match.Repository.Name, reconcileErr,
					)
					return reconcileErr
				}

				if prURL != "" && !seen[prURL] {
					seen[prURL] = true
					summary = append(summary, prURL)
				}
			}
		}
	}

	it.printSummary(dryRun, summary)
	return nil
}

// printSummary prints the end-of-run report: either the dry-run notice or
// the deduplicated list of pull-request URLs.
func (it *RunCommand) printSummary(dryRun bool, summary []string) {
	if dryRun {
		color.Yellow("Dry run, no changes made")
		return
	}

	if len(summary) == 0 {
		color.Green("PRs summary: no pull requests needed")
		return
	}

	color.Green("PRs summary:\n%s", strings.Join(summary, "\n"))
}

// displayProject substitutes "all" for an unscoped project, for log output only.
func displayProject(project string) string {
	if project == "" {
		return "all"
	}
	return project
}

// displayRepos substitutes "all" for an unscoped repository list, for log output only.
func displayRepos(repos []string) string {
	if len(repos) == 0 {
		return "all"
	}
	return strings.Join(repos, ", ")
}
