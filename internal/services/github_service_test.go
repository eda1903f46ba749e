package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/alimgiray/commitboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGraphQL stands in for the GitHub GraphQL endpoint. Responses are keyed by login;
// a login with no entry gets a null user with a NOT_FOUND error.
type fakeGraphQL struct {
	t         *testing.T
	responses map[string]func(w http.ResponseWriter)
	calls     atomic.Int32
	lastAuth  atomic.Value
}

func (f *fakeGraphQL) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	f.lastAuth.Store(r.Header.Get("Authorization"))

	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, "/graphql", r.URL.Path)

	var req graphQLRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(f.t, contributionsQuery, req.Query)

	login, _ := req.Variables["login"].(string)
	if respond, ok := f.responses[login]; ok {
		respond(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User with the login of '` + login + `'."}]}`))
}

func jsonBody(body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func userBody(avatar string, contributions, prs, issues int) func(w http.ResponseWriter) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"avatarUrl": avatar,
				"contributionsCollection": map[string]interface{}{
					"contributionCalendar":     map[string]interface{}{"totalContributions": contributions},
					"pullRequestContributions": map[string]interface{}{"totalCount": prs},
					"issueContributions":       map[string]interface{}{"totalCount": issues},
				},
			},
		},
	}
	raw, _ := json.Marshal(payload)
	return jsonBody(string(raw))
}

func newTestGitHubService(t *testing.T, fake *fakeGraphQL, token string) *GitHubService {
	t.Helper()
	fake.t = t
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	svc, err := NewGitHubService(config.GitHubConfig{
		Token:   token,
		APIURL:  server.URL,
		Timeout: 5,
	})
	require.NoError(t, err)
	return svc
}

func TestGitHubServiceLookupUser(t *testing.T) {
	fake := &fakeGraphQL{responses: map[string]func(w http.ResponseWriter){
		"octocat": userBody("https://avatars.example.com/octocat", 120, 14, 3),
		"noavatar": jsonBody(`{"data":{"user":{"avatarUrl":null,"contributionsCollection":{
			"contributionCalendar":{"totalContributions":7}}}}}`),
		"nocollection": jsonBody(`{"data":{"user":{"avatarUrl":"https://a","contributionsCollection":null}}}`),
		"broken":       jsonBody(`{"data": {"user": `),
		"boom": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"graphqlerror": jsonBody(`{"data":null,"errors":[{"type":"INTERNAL","message":"something went wrong"}]}`),
		"empty":        jsonBody(`{}`),
	}}
	svc := newTestGitHubService(t, fake, "test-token")
	ctx := context.Background()

	t.Run("user with full stats", func(t *testing.T) {
		result := svc.LookupUser(ctx, "octocat")

		assert.Equal(t, models.LookupOK, result.Outcome)
		assert.Equal(t, "octocat", result.Username)
		assert.Equal(t, "https://avatars.example.com/octocat", result.AvatarURL)
		assert.Equal(t, models.ContributionStats{Contributions: 120, PRs: 14, Issues: 3}, result.Stats)
		assert.Equal(t, "Bearer test-token", fake.lastAuth.Load())
	})

	t.Run("absent counters default to zero", func(t *testing.T) {
		result := svc.LookupUser(ctx, "noavatar")

		assert.Equal(t, models.LookupOK, result.Outcome)
		assert.Equal(t, "", result.AvatarURL)
		assert.Equal(t, models.ContributionStats{Contributions: 7}, result.Stats)
	})

	t.Run("unknown login is not found", func(t *testing.T) {
		result := svc.LookupUser(ctx, "ghost")

		assert.Equal(t, models.LookupNotFound, result.Outcome)
		assert.NoError(t, result.Err)
	})

	upstreamFailures := []string{"nocollection", "broken", "boom", "graphqlerror", "empty"}
	for _, login := range upstreamFailures {
		t.Run("upstream error for "+login, func(t *testing.T) {
			result := svc.LookupUser(ctx, login)

			assert.Equal(t, models.LookupUpstreamError, result.Outcome)
			assert.True(t, errors.Is(result.Err, ErrUpstream), "got %v", result.Err)
		})
	}
}

func TestGitHubServiceOneRequestPerLookup(t *testing.T) {
	fake := &fakeGraphQL{responses: map[string]func(w http.ResponseWriter){
		"boom": func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
	}}
	svc := newTestGitHubService(t, fake, "test-token")

	result := svc.LookupUser(context.Background(), "boom")

	assert.Equal(t, models.LookupUpstreamError, result.Outcome)
	assert.Equal(t, int32(1), fake.calls.Load(), "failures are not retried")
}

func TestGitHubServiceRateLimitIsNotCarriedOver(t *testing.T) {
	reset := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	exhausted := func(w http.ResponseWriter) {
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", reset)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}
	fake := &fakeGraphQL{responses: map[string]func(w http.ResponseWriter){
		"first":  exhausted,
		"second": userBody("https://avatars.example.com/second", 3, 1, 0),
	}}
	svc := newTestGitHubService(t, fake, "test-token")

	first := svc.LookupUser(context.Background(), "first")
	assert.Equal(t, models.LookupUpstreamError, first.Outcome)

	second := svc.LookupUser(context.Background(), "second")
	assert.Equal(t, models.LookupOK, second.Outcome)
	assert.Equal(t, int32(2), fake.calls.Load(), "every lookup reaches the API")
}

func TestGitHubServiceCredential(t *testing.T) {
	withToken, err := NewGitHubService(config.GitHubConfig{Token: "x", APIURL: "https://api.github.com/", Timeout: 1})
	require.NoError(t, err)
	assert.True(t, withToken.HasCredential())

	withoutToken, err := NewGitHubService(config.GitHubConfig{APIURL: "https://api.github.com", Timeout: 1})
	require.NoError(t, err)
	assert.False(t, withoutToken.HasCredential())
	assert.Equal(t, "https://api.github.com/", withoutToken.baseURL.String())

	_, err = NewGitHubService(config.GitHubConfig{APIURL: "://bad", Timeout: 1})
	assert.Error(t, err)
}
