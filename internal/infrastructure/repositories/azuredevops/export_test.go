package azuredevops

// SearchBaseURL exports searchBaseURL for testing.
var SearchBaseURL = searchBaseURL //nolint:gochecknoglobals // test export
