//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adobulk/internal/domain/commands"
	"adobulk/internal/domain/entities"
	"adobulk/internal/domain/repositories"
	doubles "adobulk/test/infrastructure/repositorydoubles"
)

// spyReconcile records reconciliation calls and returns scripted URLs.
type spyReconcile struct {
	URLs    []string // returned in call order; the last one repeats
	Err     error
	Matches []entities.SearchMatch
	Rules   []entities.ReplacementRule
}

var _ commands.Reconcile = (*spyReconcile)(nil)

func (s *spyReconcile) Execute(
	_ context.Context,
	_ *repositories.Collaborators,
	_ *entities.Settings,
	match entities.SearchMatch,
	rule entities.ReplacementRule,
) (string, error) {
	s.Matches = append(s.Matches, match)
	s.Rules = append(s.Rules, rule)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.URLs) == 0 {
		return "", nil
	}
	idx := len(s.Matches) - 1
	if idx >= len(s.URLs) {
		idx = len(s.URLs) - 1
	}
	return s.URLs[idx], nil
}

func newRunSettings(scope entities.Scope) *entities.Settings {
	return &entities.Settings{
		OrganizationName: "test-org",
		SourceBranch:     "main",
		NewBranch:        "bulk-update-20240101",
		Scope:            scope,
		StringsToReplace: []entities.ReplacementRule{
			{Old: "foo.bar.com", New: "baz.qux.com"},
		},
	}
}

func TestRunCommandExecute(t *testing.T) {
	t.Parallel()

	match := entities.SearchMatch{
		Project:    entities.Project{ID: "proj-id", Name: "Platform"},
		Repository: entities.Repository{ID: "repo-id", Name: "infra"},
		Path:       "/config.yaml",
	}

	t.Run("should search once per scope pair and rule", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		settings := newRunSettings(entities.Scope{
			{Project: "One", Repos: []string{"repo-a"}},
			{Project: "Two"},
		})
		settings.StringsToReplace = append(
			settings.StringsToReplace,
			entities.ReplacementRule{Old: "second", New: "replacement"},
		)

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"foo.bar.com", "second", "foo.bar.com", "second"}, search.SearchedTexts)
		assert.Equal(t, []string{"One"}, search.SearchedProjects[0])
		assert.Equal(t, []string{"repo-a"}, search.SearchedRepos[0])
		assert.Equal(t, []string{"Two"}, search.SearchedProjects[2])
		assert.Nil(t, search.SearchedRepos[2])
	})

	t.Run("should search unscoped with no filters when scope is empty", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, search.SearchedTexts, 1)
		assert.Nil(t, search.SearchedProjects[0])
		assert.Nil(t, search.SearchedRepos[0])
	})

	t.Run("should reconcile every match when not in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{
			Matches: map[string][]entities.SearchMatch{
				"foo.bar.com": {match},
			},
		}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{URLs: []string{"https://example.test/pr/1"}}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, reconcile.Matches, 1)
		assert.Equal(t, match, reconcile.Matches[0])
		assert.Equal(t, "foo.bar.com", reconcile.Rules[0].Old)
	})

	t.Run("should issue no reconciliation at all in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{
			Matches: map[string][]entities.SearchMatch{
				"foo.bar.com": {match},
			},
		}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		settings := newRunSettings(nil)
		settings.DryRun = true

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Len(t, search.SearchedTexts, 1, "search still runs in dry-run mode")
		assert.Empty(t, reconcile.Matches, "no mutation calls in dry-run mode")
	})

	t.Run("should honor the dry-run CLI override", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{
			Matches: map[string][]entities.SearchMatch{
				"foo.bar.com": {match},
			},
		}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{DryRun: true})

		// then
		require.NoError(t, err)
		assert.Empty(t, reconcile.Matches)
	})

	t.Run("should abort the whole run on a search failure", func(t *testing.T) {
		t.Parallel()

		// given
		searchErr := errors.New("service unavailable")
		search := &doubles.SpySearchRepository{FindErr: searchErr}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		settings := newRunSettings(entities.Scope{
			{Project: "One"},
			{Project: "Two"},
		})

		// when
		err := cmd.Execute(context.Background(), settings, commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, searchErr)
		assert.Len(t, search.SearchedTexts, 1, "no partial-scope continuation after a failure")
		assert.Empty(t, reconcile.Matches)
	})

	t.Run("should stop after a reconciliation failure", func(t *testing.T) {
		t.Parallel()

		// given
		reconcileErr := errors.New("push rejected")
		search := &doubles.SpySearchRepository{
			Matches: map[string][]entities.SearchMatch{
				"foo.bar.com": {match, match},
			},
		}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{Err: reconcileErr}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, reconcileErr)
		assert.Len(t, reconcile.Matches, 1)
	})

	t.Run("should treat zero matches as a normal outcome", func(t *testing.T) {
		t.Parallel()

		// given
		search := &doubles.SpySearchRepository{}
		factory := &doubles.StubCollaboratorFactory{
			Collaborators: &repositories.Collaborators{Search: search},
		}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, reconcile.Matches)
	})

	t.Run("should fail when the factory cannot connect", func(t *testing.T) {
		t.Parallel()

		// given
		connectErr := errors.New("bad credentials")
		factory := &doubles.StubCollaboratorFactory{ConnectErr: connectErr}
		reconcile := &spyReconcile{}

		cmd := commands.NewRunCommand(factory, reconcile)

		// when
		err := cmd.Execute(context.Background(), newRunSettings(nil), commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, connectErr)
	})
}

func TestScopeDisplayFallback(t *testing.T) {
	t.Parallel()

	t.Run("should label an unscoped project as all", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, "all", commands.DisplayProject(""))
		assert.Equal(t, "Platform", commands.DisplayProject("Platform"))
	})

	t.Run("should label an unscoped repository list as all", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, "all", commands.DisplayRepos(nil))
		assert.Equal(t, "one, two", commands.DisplayRepos([]string{"one", "two"}))
	})
}
