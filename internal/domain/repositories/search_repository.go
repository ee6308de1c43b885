package repositories

import (
	"context"

	"adobulk/internal/domain/entities"
)

// SearchRepository abstracts the code-search collaborator.
type SearchRepository interface {
	// FindCode searches for a literal string, optionally filtered by project
	// and repository names, and returns every matching file location.
	FindCode(ctx context.Context, text string, projects, repos []string) ([]entities.SearchMatch, error)
}
