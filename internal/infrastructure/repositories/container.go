package repositories

import (
	"go.uber.org/dig"

	domainRepos "adobulk/internal/domain/repositories"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewAzureDevOpsFactory); err != nil {
		return err
	}

	// Bind the interface to the implementation
	if err := container.Provide(func(impl *AzureDevOpsFactory) domainRepos.CollaboratorFactory {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
