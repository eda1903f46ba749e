package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/alimgiray/commitboard/pkg/config"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// contributionsQuery is sent unchanged for every member; the login travels as a variable.
const contributionsQuery = `query($login: String!) {
  user(login: $login) {
    avatarUrl
    contributionsCollection {
      contributionCalendar {
        totalContributions
      }
      pullRequestContributions(first: 1) { totalCount }
      issueContributions(first: 1) { totalCount }
    }
  }
}`

type GitHubService struct {
	httpClient    *http.Client
	baseURL       *url.URL
	hasCredential bool
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type totalCount struct {
	TotalCount int `json:"totalCount"`
}

type contributionsCollection struct {
	ContributionCalendar *struct {
		TotalContributions int `json:"totalContributions"`
	} `json:"contributionCalendar"`
	PullRequestContributions *totalCount `json:"pullRequestContributions"`
	IssueContributions       *totalCount `json:"issueContributions"`
}

type graphQLUser struct {
	AvatarURL               *string                  `json:"avatarUrl"`
	ContributionsCollection *contributionsCollection `json:"contributionsCollection"`
}

type contributionsResponse struct {
	Data *struct {
		User *graphQLUser `json:"user"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// NewGitHubService creates a GraphQL client for the configured GitHub API.
// Without a token the service is still usable but reports no credential.
func NewGitHubService(cfg config.GitHubConfig) (*GitHubService, error) {
	baseURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	httpClient := &http.Client{Timeout: timeout}
	if cfg.Token != "" {
		httpClient = createAuthenticatedClient(cfg.Token, timeout)
	}

	return &GitHubService{
		httpClient:    httpClient,
		baseURL:       baseURL,
		hasCredential: cfg.Token != "",
	}, nil
}

// newClient returns a go-github client for a single lookup. go-github remembers
// rate limit responses per client and short-circuits later calls, so clients
// are not shared between lookups.
func (s *GitHubService) newClient() *github.Client {
	client := github.NewClient(s.httpClient)
	client.BaseURL = s.baseURL
	return client
}

// createAuthenticatedClient creates an HTTP client that sends the token as a bearer credential
func createAuthenticatedClient(token string, timeout time.Duration) *http.Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout
	return tc
}

// HasCredential reports whether a GitHub token was configured
func (s *GitHubService) HasCredential() bool {
	return s.hasCredential
}

// LookupUser runs the contributions query for one login. It issues exactly one
// request and never retries; every failure is reported in the result.
func (s *GitHubService) LookupUser(ctx context.Context, login string) models.LookupResult {
	payload := graphQLRequest{
		Query:     contributionsQuery,
		Variables: map[string]interface{}{"login": login},
	}

	client := s.newClient()
	req, err := client.NewRequest(http.MethodPost, "graphql", payload)
	if err != nil {
		return models.ErrorResult(login, fmt.Errorf("%w: failed to build request: %v", ErrUpstream, err))
	}

	var body contributionsResponse
	if _, err := client.Do(ctx, req, &body); err != nil {
		return models.ErrorResult(login, fmt.Errorf("%w: %v", ErrUpstream, err))
	}

	return toLookupResult(login, &body)
}

func toLookupResult(login string, body *contributionsResponse) models.LookupResult {
	if body.Data == nil || body.Data.User == nil {
		// GitHub answers an unknown login with a null user and a NOT_FOUND error
		for _, e := range body.Errors {
			if e.Type != "NOT_FOUND" {
				return models.ErrorResult(login, fmt.Errorf("%w: %s", ErrUpstream, e.Message))
			}
		}
		if body.Data == nil && len(body.Errors) == 0 {
			return models.ErrorResult(login, fmt.Errorf("%w: response has no data", ErrUpstream))
		}
		return models.NotFoundResult(login)
	}

	user := body.Data.User
	if user.ContributionsCollection == nil {
		return models.ErrorResult(login, fmt.Errorf("%w: response has no contributionsCollection", ErrUpstream))
	}

	var stats models.ContributionStats
	cc := user.ContributionsCollection
	if cc.ContributionCalendar != nil {
		stats.Contributions = cc.ContributionCalendar.TotalContributions
	}
	if cc.PullRequestContributions != nil {
		stats.PRs = cc.PullRequestContributions.TotalCount
	}
	if cc.IssueContributions != nil {
		stats.Issues = cc.IssueContributions.TotalCount
	}

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return models.FoundResult(login, avatarURL, stats)
}
