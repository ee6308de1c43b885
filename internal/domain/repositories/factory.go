package repositories

import (
	"adobulk/internal/domain/entities"
)

// Collaborators bundles the three remote collaborators a run works against.
type Collaborators struct {
	Search       SearchRepository
	Git          GitRepository
	PullRequests PullRequestRepository
}

// CollaboratorFactory builds the collaborators for a run from the loaded
// settings. Commands depend on this interface so tests can substitute spies.
type CollaboratorFactory interface {
	Connect(settings *entities.Settings) (*Collaborators, error)
}
