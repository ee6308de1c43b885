package commands

// DisplayProject exports displayProject for testing.
var DisplayProject = displayProject //nolint:gochecknoglobals // test export

// DisplayRepos exports displayRepos for testing.
var DisplayRepos = displayRepos //nolint:gochecknoglobals // test export
