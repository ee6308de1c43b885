package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
)

const (
	pullRequestTitle = "Bulk update"
	commitMessage    = "Updated file content"
)

// Reconcile is the interface for the per-match reconciliation workflow.
type Reconcile interface {
	Execute(
		ctx context.Context,
		collab *repositories.Collaborators,
		settings *entities.Settings,
		match entities.SearchMatch,
		rule entities.ReplacementRule,
	) (string, error)
}

// ReconcileCommand makes the remote state for one file match "old replaced by
// new" and ensures exactly one active pull request tracks it. Running it
// twice with no external interference is a no-op on the second run: the
// presence check finds the string absent and the active PR present.
type ReconcileCommand struct{}

// NewReconcileCommand creates a new ReconcileCommand.
func NewReconcileCommand() *ReconcileCommand {
	return &ReconcileCommand{}
}

// Execute reconciles a single search match and returns the URL of the pull
// request tracking the change. The returned URL is empty when the content no
// longer needs edits and no pull request exists.
func (it *ReconcileCommand) Execute(
	ctx context.Context,
	collab *repositories.Collaborators,
	settings *entities.Settings,
	match entities.SearchMatch,
	rule entities.ReplacementRule,
) (string, error) {
	project := match.Project.Name
	repoID := match.Repository.ID

	tip, err := it.ensureBranch(ctx, collab.Git, settings, project, repoID)
	if err != nil {
		return "", err
	}

	// Read the file at the work-branch tip, not the source branch, so
	// repeated runs see the edits made by earlier runs.
	content, err := collab.Git.GetItemContent(ctx, project, repoID, match.Path, settings.NewBranch)
	if err != nil {
		return "", err
	}

	existing, err := collab.PullRequests.FindActive(
		ctx, project, repoID, settings.NewBranch, settings.SourceBranch,
	)
	if err != nil {
		return "", err
	}

	if !strings.Contains(content, rule.Old) {
		if existing != nil {
			prURL := collab.PullRequests.URL(project, match.Repository.Name, existing.ID)
			logger.Infof("PR already exists: %s", prURL)
			return prURL, nil
		}
		// The string is already gone and no PR tracks it (e.g. the file was
		// edited manually). Pushing unchanged content would open a PR with
		// no effective diff, so treat this as done.
		logger.Infof(
			"Content of %q in %s/%s already up to date, nothing to do",
			match.Path, project, match.Repository.Name,
		)
		return "", nil
	}

	newContent := strings.ReplaceAll(content, rule.Old, rule.New)

	pushErr := collab.Git.Push(ctx, project, repoID, entities.PushInput{
		BranchName:  settings.NewBranch,
		OldObjectID: tip,
		Changes: []entities.FileChange{
			{
				Path:       match.Path,
				Content:    newContent,
				ChangeType: "edit",
			},
		},
		CommitMessage: commitMessage,
	})
	if pushErr != nil {
		return "", pushErr
	}

	if existing != nil {
		prURL := collab.PullRequests.URL(project, match.Repository.Name, existing.ID)
		logger.Infof("PR already exists: %s", prURL)
		return prURL, nil
	}

	pr, err := collab.PullRequests.Create(ctx, project, repoID, entities.PullRequestInput{
		SourceBranch: settings.NewBranch,
		TargetBranch: settings.SourceBranch,
		Title:        pullRequestTitle,
	})
	if err != nil {
		return "", err
	}

	prURL := collab.PullRequests.URL(project, match.Repository.Name, pr.ID)
	logger.Infof("PR created: %s", prURL)
	return prURL, nil
}

// ensureBranch returns the tip commit of the work branch, creating the
// branch from the source branch tip when it does not exist yet. The tip is
// the optimistic-concurrency token for the subsequent push.
func (it *ReconcileCommand) ensureBranch(
	ctx context.Context,
	git repositories.GitRepository,
	settings *entities.Settings,
	project, repoID string,
) (string, error) {
	branches, err := git.ListBranches(ctx, project, repoID)
	if err != nil {
		return "", err
	}

	for _, branch := range branches {
		if branch.Name == settings.NewBranch {
			return branch.TipSHA, nil
		}
	}

	source, err := git.GetBranch(ctx, project, repoID, settings.SourceBranch)
	if err != nil {
		return "", fmt.Errorf("failed to read source branch %q: %w", settings.SourceBranch, err)
	}

	if createErr := git.CreateBranch(ctx, project, repoID, settings.NewBranch, source.TipSHA); createErr != nil {
		return "", createErr
	}

	return source.TipSHA, nil
}
