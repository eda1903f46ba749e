package services

import "errors"

var (
	// ErrCredentialMissing means no GitHub token was configured on the server
	ErrCredentialMissing = errors.New("github token not configured")

	// ErrInvalidRoster means the team list is absent, not a list, or has a member without a username
	ErrInvalidRoster = errors.New("missing or invalid team array")

	// ErrUpstream wraps failures talking to the GitHub GraphQL API
	ErrUpstream = errors.New("github api request failed")

	// ErrProxyRequest wraps failures of the dashboard's call to the stats proxy
	ErrProxyRequest = errors.New("stats proxy request failed")
)
