package repositories

import (
	"adobulk/internal/domain/entities"
	domainRepos "adobulk/internal/domain/repositories"
	"adobulk/internal/infrastructure/repositories/azuredevops"
)

// AzureDevOpsFactory builds the Azure DevOps collaborators for a run.
// All three collaborators share one authenticated REST client.
type AzureDevOpsFactory struct{}

var _ domainRepos.CollaboratorFactory = (*AzureDevOpsFactory)(nil)

// NewAzureDevOpsFactory creates a new AzureDevOpsFactory.
func NewAzureDevOpsFactory() *AzureDevOpsFactory {
	return &AzureDevOpsFactory{}
}

// Connect creates the collaborators for the organization named in the settings.
func (f *AzureDevOpsFactory) Connect(settings *entities.Settings) (*domainRepos.Collaborators, error) {
	client := azuredevops.NewClient(settings)

	return &domainRepos.Collaborators{
		Search:       azuredevops.NewSearchRepository(client),
		Git:          azuredevops.NewGitRepository(client),
		PullRequests: azuredevops.NewPullRequestRepository(client),
	}, nil
}
