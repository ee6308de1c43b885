package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"

	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
)

// searchResultCap is the maximum number of results requested per search.
const searchResultCap = 1000

// SearchRepository implements code search over the Azure DevOps search API.
type SearchRepository struct {
	client *Client
}

var _ repositories.SearchRepository = (*SearchRepository)(nil)

// NewSearchRepository creates a SearchRepository backed by the given client.
func NewSearchRepository(client *Client) *SearchRepository {
	return &SearchRepository{client: client}
}

// FindCode searches for a literal string across the organization, optionally
// filtered by project and repository names.
func (r *SearchRepository) FindCode(
	ctx context.Context,
	text string,
	projects, repos []string,
) ([]entities.SearchMatch, error) {
	body := map[string]interface{}{
		"searchText":    text,
		"$top":          searchResultCap,
		"includeFacets": false,
	}

	filters := map[string][]string{}
	if len(projects) > 0 {
		filters["Project"] = projects
	}
	if len(repos) > 0 {
		filters["Repository"] = repos
	}
	if len(filters) > 0 {
		body["filters"] = filters
	}

	endpoint := "/_apis/search/codesearchresults?api-version=" + apiVersion

	resp, err := r.client.doSearchRequest(ctx, "POST", endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("code search failed: %w", err)
	}

	var result struct {
		Count   int `json:"count"`
		Results []struct {
			Path    string `json:"path"`
			Project struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"project"`
			Repository struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"repository"`
		} `json:"results"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	matches := make([]entities.SearchMatch, 0, len(result.Results))
	for _, hit := range result.Results {
		matches = append(matches, entities.SearchMatch{
			Project: entities.Project{
				ID:   hit.Project.ID,
				Name: hit.Project.Name,
			},
			Repository: entities.Repository{
				ID:   hit.Repository.ID,
				Name: hit.Repository.Name,
			},
			Path: hit.Path,
		})
	}

	return matches, nil
}
