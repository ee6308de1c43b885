//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
)

// SpySearchRepository implements repositories.SearchRepository as a configurable spy.
type SpySearchRepository struct {
	// --- FindCode ---
	Matches map[string][]entities.SearchMatch // search text -> matches
	FindErr error
	// spy: searches that were issued
	SearchedTexts    []string
	SearchedProjects [][]string
	SearchedRepos    [][]string
}

var _ repositories.SearchRepository = (*SpySearchRepository)(nil)

func (s *SpySearchRepository) FindCode(
	_ context.Context, text string, projects, repos []string,
) ([]entities.SearchMatch, error) {
	s.SearchedTexts = append(s.SearchedTexts, text)
	s.SearchedProjects = append(s.SearchedProjects, projects)
	s.SearchedRepos = append(s.SearchedRepos, repos)
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return s.Matches[text], nil
}

// SpyGitRepository implements repositories.GitRepository as a configurable spy.
// It keeps a tiny in-memory model of one repository so reconciliation tests
// can observe read-after-write behavior across invocations.
type SpyGitRepository struct {
	// --- ListBranches / GetBranch ---
	Branches      []entities.Branch
	ListErr       error
	GetBranchErr  error
	ListCallCount int

	// --- CreateBranch ---
	CreateBranchErr error
	// spy: (name, commitID) pairs created
	CreatedBranches []entities.Branch

	// --- GetItemContent ---
	FileContents map[string]string // path -> content on the work branch
	ContentErr   error

	// --- Push ---
	PushErr error
	// spy: inputs received
	PushInputs []entities.PushInput
	// NextTipSHA becomes the branch tip after a successful push.
	NextTipSHA string
}

var _ repositories.GitRepository = (*SpyGitRepository)(nil)

func (g *SpyGitRepository) ListBranches(
	_ context.Context, _, _ string,
) ([]entities.Branch, error) {
	g.ListCallCount++
	return g.Branches, g.ListErr
}

func (g *SpyGitRepository) GetBranch(
	_ context.Context, _, _, name string,
) (entities.Branch, error) {
	if g.GetBranchErr != nil {
		return entities.Branch{}, g.GetBranchErr
	}
	for _, branch := range g.Branches {
		if branch.Name == name {
			return branch, nil
		}
	}
	return entities.Branch{}, fmt.Errorf("branch %q not found", name)
}

func (g *SpyGitRepository) CreateBranch(
	_ context.Context, _, _, name, commitID string,
) error {
	if g.CreateBranchErr != nil {
		return g.CreateBranchErr
	}
	created := entities.Branch{Name: name, TipSHA: commitID}
	g.CreatedBranches = append(g.CreatedBranches, created)
	g.Branches = append(g.Branches, created)
	return nil
}

func (g *SpyGitRepository) GetItemContent(
	_ context.Context, _, _, path, _ string,
) (string, error) {
	if g.ContentErr != nil {
		return "", g.ContentErr
	}
	if content, ok := g.FileContents[path]; ok {
		return content, nil
	}
	return "", fmt.Errorf("item %q not found", path)
}

func (g *SpyGitRepository) Push(
	_ context.Context, _, _ string, input entities.PushInput,
) error {
	if g.PushErr != nil {
		return g.PushErr
	}
	g.PushInputs = append(g.PushInputs, input)

	// Apply the edit to the in-memory model and advance the branch tip.
	for _, change := range input.Changes {
		if g.FileContents == nil {
			g.FileContents = make(map[string]string)
		}
		g.FileContents[change.Path] = change.Content
	}
	if g.NextTipSHA != "" {
		for i := range g.Branches {
			if g.Branches[i].Name == input.BranchName {
				g.Branches[i].TipSHA = g.NextTipSHA
			}
		}
	}
	return nil
}

// SpyPullRequestRepository implements repositories.PullRequestRepository as a
// configurable spy.
type SpyPullRequestRepository struct {
	// --- FindActive ---
	ActivePR *entities.PullRequest
	FindErr  error

	// --- Create ---
	CreatePRErr error
	NextID      int
	// spy: inputs received
	CreateInputs []entities.PullRequestInput
}

var _ repositories.PullRequestRepository = (*SpyPullRequestRepository)(nil)

func (p *SpyPullRequestRepository) FindActive(
	_ context.Context, _, _, _, _ string,
) (*entities.PullRequest, error) {
	return p.ActivePR, p.FindErr
}

func (p *SpyPullRequestRepository) Create(
	_ context.Context, _, _ string, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.CreateInputs = append(p.CreateInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.NextID == 0 {
		p.NextID = 1
	}
	pr := &entities.PullRequest{
		ID:           p.NextID,
		Title:        input.Title,
		Status:       "active",
		SourceBranch: input.SourceBranch,
		TargetBranch: input.TargetBranch,
	}
	// Created PR becomes the active one, matching the remote invariant of at
	// most one active PR per branch pair.
	p.ActivePR = pr
	return pr, nil
}

func (p *SpyPullRequestRepository) URL(projectName, repoName string, pullRequestID int) string {
	return fmt.Sprintf(
		"https://dev.azure.com/test-org/%s/_git/%s/pullrequest/%d",
		projectName, repoName, pullRequestID,
	)
}

// StubCollaboratorFactory returns a fixed set of collaborators.
type StubCollaboratorFactory struct {
	Collaborators *repositories.Collaborators
	ConnectErr    error
}

var _ repositories.CollaboratorFactory = (*StubCollaboratorFactory)(nil)

func (f *StubCollaboratorFactory) Connect(
	_ *entities.Settings,
) (*repositories.Collaborators, error) {
	return f.Collaborators, f.ConnectErr
}
