package repositories

import (
	"context"

	"adobulk/internal/domain/entities"
)

// GitRepository abstracts the version-control collaborator: branch listing
// and creation, file content retrieval at a branch, and pushes guarded by an
// optimistic-concurrency token.
type GitRepository interface {
	// ListBranches returns every branch of the repository with its tip commit.
	ListBranches(ctx context.Context, project, repoID string) ([]entities.Branch, error)

	// GetBranch returns a single branch with its tip commit.
	GetBranch(ctx context.Context, project, repoID, name string) (entities.Branch, error)

	// CreateBranch creates a new branch reference pointing at the given
	// commit. The service rejects the creation when the ref already exists.
	CreateBranch(ctx context.Context, project, repoID, name, commitID string) error

	// GetItemContent reads the content of a file as it exists on a branch.
	GetItemContent(ctx context.Context, project, repoID, path, branch string) (string, error)

	// Push commits the given changes to an existing branch. The service
	// rejects the push when the branch tip no longer matches OldObjectID.
	Push(ctx context.Context, project, repoID string, input entities.PushInput) error
}
