package entities

// ReplacementRule is a single literal find-and-replace pair.
type ReplacementRule struct {
	Old string `yaml:"old"` // Literal string to search for; must be non-empty
	New string `yaml:"new"` // Literal replacement string
}

// ProjectScope pairs a project with the repositories to search in it.
// An empty Project means the search is unscoped across all projects,
// a nil Repos slice means all repositories within the project.
type ProjectScope struct {
	Project string
	Repos   []string
}

// Project identifies an Azure DevOps project.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Repository identifies an Azure DevOps Git repository.
type Repository struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SearchMatch is a single code-search hit: one file in one repository.
type SearchMatch struct {
	Project    Project
	Repository Repository
	Path       string
}

// Branch is a branch reference with its current tip commit.
type Branch struct {
	Name   string // Short name, without the refs/heads/ prefix
	TipSHA string // Object ID of the latest commit on the branch
}

// FileChange is a single file modification to be included in a push.
type FileChange struct {
	Path       string
	Content    string
	ChangeType string // "add", "edit", "delete"
}

// PushInput contains the data for a single-commit push to an existing branch.
// OldObjectID is the expected current tip of the branch; the service rejects
// the push when the branch has moved past it.
type PushInput struct {
	BranchName    string
	OldObjectID   string
	Changes       []FileChange
	CommitMessage string
}

// PullRequestInput contains the data needed to create a pull request.
type PullRequestInput struct {
	SourceBranch string
	TargetBranch string
	Title        string
}

// PullRequest represents a pull request returned by the service.
type PullRequest struct {
	ID           int
	Title        string
	Status       string
	SourceBranch string
	TargetBranch string
}
