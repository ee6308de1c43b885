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

// PullRequestRepository implements pull-request lookup and creation over the
// Azure DevOps git API.
type PullRequestRepository struct {
	client *Client
}

var _ repositories.PullRequestRepository = (*PullRequestRepository)(nil)

// NewPullRequestRepository creates a PullRequestRepository backed by the
// given client.
func NewPullRequestRepository(client *Client) *PullRequestRepository {
	return &PullRequestRepository{client: client}
}

// pullRequestResult is the wire shape of a pull request.
type pullRequestResult struct {
	ID           int    `json:"pullRequestId"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	SourceBranch string `json:"sourceRefName"`
	TargetBranch string `json:"targetRefName"`
}

func (p pullRequestResult) toEntity() *entities.PullRequest {
	return &entities.PullRequest{
		ID:           p.ID,
		Title:        p.Title,
		Status:       p.Status,
		SourceBranch: strings.TrimPrefix(p.SourceBranch, headsPrefix),
		TargetBranch: strings.TrimPrefix(p.TargetBranch, headsPrefix),
	}
}

// FindActive returns the active pull request from sourceBranch to
// targetBranch, or nil when none exists.
func (r *PullRequestRepository) FindActive(
	ctx context.Context,
	project, repoID, sourceBranch, targetBranch string,
) (*entities.PullRequest, error) {
	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/pullrequests"+
			"?searchCriteria.sourceRefName=%s&searchCriteria.targetRefName=%s"+
			"&searchCriteria.status=active&api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID),
		url.QueryEscape(headsPrefix+sourceBranch),
		url.QueryEscape(headsPrefix+targetBranch),
		apiVersion,
	)

	resp, err := r.client.doRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}

	var result struct {
		Value []pullRequestResult `json:"value"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to parse pull requests response: %w", err)
	}

	if len(result.Value) == 0 {
		return nil, nil
	}

	return result.Value[0].toEntity(), nil
}

// Create opens a new pull request and returns it.
func (r *PullRequestRepository) Create(
	ctx context.Context,
	project, repoID string,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	body := map[string]interface{}{
		"sourceRefName": headsPrefix + input.SourceBranch,
		"targetRefName": headsPrefix + input.TargetBranch,
		"title":         input.Title,
	}

	endpoint := fmt.Sprintf(
		"/%s/_apis/git/repositories/%s/pullrequests?api-version=%s",
		url.PathEscape(project), url.PathEscape(repoID), apiVersion,
	)

	resp, err := r.client.doRequest(ctx, "POST", endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	var pr pullRequestResult
	if err := json.Unmarshal(resp, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse pull request response: %w", err)
	}

	return pr.toEntity(), nil
}

// URL returns the human-facing web URL of a pull request.
func (r *PullRequestRepository) URL(projectName, repoName string, pullRequestID int) string {
	return r.client.PullRequestURL(projectName, repoName, pullRequestID)
}
