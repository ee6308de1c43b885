package azuredevops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
)

const headsPrefix = "refs/heads/"

// GitRepository implements branch, item and push operations over the Azure
// DevOps git API.
type GitRepository struct {
	client *Client
}

var _ repositories.GitRepository = (*GitRepository)(nil)

// NewGitRepository creates a GitRepository backed by the given client.
func NewGitRepository(client *Client) *GitRepository {
	return &GitRepository{client: client}
}

// refResult is the wire shape of a ref returned by the refs API.
type refResult struct {
	Name     string `json:"name"`
	ObjectID string `json:"objectId"`
}

// ListBranches returns every branch of the repository with its tip commit.
func (r *GitRepository) ListBranches(ctx context.Context, project, repoID string) ([]entities.Branch, error) {
	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/refs?filter=heads/&api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID), apiVersion,
	)

	resp, err := r.client.doRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	var result struct {
		Value []refResult `json:"value"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse refs response: %w", err)
	}

	branches := make([]entities.Branch, 0, len(result.Value))
	for _, ref := range result.Value {
		branches = append(branches, entities.Branch{
			Name:   strings.TrimPrefix(ref.Name, headsPrefix),
			TipSHA: ref.ObjectID,
		})
	}

	return branches, nil
}

// GetBranch returns a single branch with its tip commit.
func (r *GitRepository) GetBranch(ctx context.Context, project, repoID, name string) (entities.Branch, error) {
	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/refs?filter=heads/%s&api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID), url.QueryEscape(name), apiVersion,
	)

	resp, err := r.client.doRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return entities.Branch{}, fmt.Errorf("failed to get branch %q: %w", name, err)
	}

	var result struct {
		Value []refResult `json:"value"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return entities.Branch{}, fmt.Errorf("failed to parse refs response: %w", err)
	}

	// The filter matches by prefix; compare full names for the exact branch.
	for _, ref := range result.Value {
		if ref.Name == headsPrefix+name {
			return entities.Branch{
				Name:   name,
				TipSHA: ref.ObjectID,
			}, nil
		}
	}

	return entities.Branch{}, fmt.Errorf("branch %q not found", name)
}

// CreateBranch creates a new branch reference pointing at the given commit,
// using the all-zero object ID as the "no prior ref" sentinel.
func (r *GitRepository) CreateBranch(ctx context.Context, project, repoID, name, commitID string) error {
	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/refs?api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID), apiVersion,
	)

	body := []map[string]interface{}{
		{
			"name":        headsPrefix + name,
			"oldObjectId": zeroObjectID,
			"newObjectId": commitID,
			"isLocked":    false,
		},
	}

	resp, err := r.client.doRequest(ctx, "POST", endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create branch %q: %w", name, err)
	}

	var result struct {
		Value []struct {
			Success      bool   `json:"success"`
			UpdateStatus string `json:"updateStatus"`
		} `json:"value"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to parse ref update response: %w", err)
	}

	if len(result.Value) == 0 || !result.Value[0].Success {
		status := "unknown"
		if len(result.Value) > 0 {
			status = result.Value[0].UpdateStatus
		}
		return fmt.Errorf("ref update for branch %q rejected: %s", name, status)
	}

	return nil
}

// GetItemContent reads the content of a file as it exists on a branch.
func (r *GitRepository) GetItemContent(ctx context.Context, project, repoID, path, branch string) (string, error) {
	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/items?path=%s&includeContent=true"+
			"&versionDescriptor.versionType=branch&versionDescriptor.version=%s"+
			"&$format=json&api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID),
		url.QueryEscape(path), url.QueryEscape(branch), apiVersion,
	)

	resp, err := r.client.doRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get item %q: %w", path, err)
	}

	var item struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(resp, &item); err != nil {
		return "", fmt.Errorf("failed to parse item response: %w", err)
	}

	return item.Content, nil
}

// Push commits the given changes to an existing branch. OldObjectID is the
// optimistic-concurrency token: the service rejects the push when the branch
// has moved past it.
func (r *GitRepository) Push(ctx context.Context, project, repoID string, input entities.PushInput) error {
	changes := make([]map[string]interface{}, 0, len(input.Changes))
	for _, change := range input.Changes {
		changes = append(changes, map[string]interface{}{
			"changeType": change.ChangeType,
			"item": map[string]string{
				"path": change.Path,
			},
			"newContent": map[string]string{
				"content":     change.Content,
				"contentType": "rawtext",
			},
		})
	}

	body := map[string]interface{}{
		"refUpdates": []map[string]string{
			{
				"name":        headsPrefix + input.BranchName,
				"oldObjectId": input.OldObjectID,
			},
		},
		"commits": []map[string]interface{}{
			{
				"comment": input.CommitMessage,
				"changes": changes,
			},
		},
	}

	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/pushes?api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID), apiVersion,
	)

	if _, err := r.client.doRequest(ctx, "POST", endpoint, body); err != nil {
		return fmt.Errorf("failed to push to branch %q: %w", input.BranchName, err)
	}

	return nil
}
