package repositories

import (
	"context"

	"adobulk/internal/domain/entities"
)

// PullRequestRepository abstracts the pull-request collaborator.
type PullRequestRepository interface {
	// FindActive returns the active pull request from sourceBranch to
	// targetBranch in the repository, or nil when none exists.
	FindActive(ctx context.Context, project, repoID, sourceBranch, targetBranch string) (*entities.PullRequest, error)

	// Create opens a new pull request and returns it.
	Create(ctx context.Context, project, repoID string, input entities.PullRequestInput) (*entities.PullRequest, error)

	// URL returns the human-facing web URL of a pull request.
	URL(projectName, repoName string, pullRequestID int) string
}
