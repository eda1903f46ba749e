package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	resp   models.AggregatedResponse
	err    error
	calls  int
	before func()
}

func (f *stubFetcher) FetchStats(_ context.Context, team []models.TeamMember) (models.AggregatedResponse, error) {
	f.calls++
	if f.before != nil {
		f.before()
	}
	return f.resp, f.err
}

func TestDashboardStateLoad(t *testing.T) {
	team := roster("a", "b")

	t.Run("success replaces stats and avatars", func(t *testing.T) {
		state := NewDashboardState(team)
		fetcher := &stubFetcher{resp: models.AggregatedResponse{
			Stats:   models.StatsMap{"a": {Contributions: 5}},
			Avatars: models.AvatarMap{"a": "url1", "b": "/favicon.ico"},
		}}

		require.NoError(t, state.Load(context.Background(), fetcher))

		assert.Equal(t, 1, fetcher.calls)
		assert.False(t, state.Loading)
		assert.Empty(t, state.Error)
		assert.Equal(t, fetcher.resp.Stats, state.Stats)
		assert.Equal(t, fetcher.resp.Avatars, state.Avatars)
	})

	t.Run("missing maps default to empty", func(t *testing.T) {
		state := NewDashboardState(team)
		state.Stats = models.StatsMap{"old": {}}

		require.NoError(t, state.Load(context.Background(), &stubFetcher{}))

		assert.NotNil(t, state.Stats)
		assert.Empty(t, state.Stats, "stats are replaced, not merged")
		assert.NotNil(t, state.Avatars)
	})

	t.Run("failure keeps prior values and sets error", func(t *testing.T) {
		state := NewDashboardState(team)
		prior := models.StatsMap{"a": {PRs: 2}}
		state.Stats = prior

		err := state.Load(context.Background(), &stubFetcher{err: errors.New("status 502")})

		assert.Error(t, err)
		assert.False(t, state.Loading)
		assert.Contains(t, state.Error, "status 502")
		assert.Equal(t, prior, state.Stats)
	})

	t.Run("load clears a previous error", func(t *testing.T) {
		state := NewDashboardState(team)
		state.Error = "old failure"

		require.NoError(t, state.Load(context.Background(), &stubFetcher{}))
		assert.Empty(t, state.Error)
	})

	t.Run("result after teardown is dropped", func(t *testing.T) {
		state := NewDashboardState(team)
		ctx, cancel := context.WithCancel(context.Background())
		fetcher := &stubFetcher{
			resp:   models.AggregatedResponse{Stats: models.StatsMap{"a": {Contributions: 9}}},
			before: cancel,
		}

		err := state.Load(ctx, fetcher)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, state.Stats)
		assert.Empty(t, state.Error)
	})
}

func TestDashboardStateControls(t *testing.T) {
	state := NewDashboardState(testRoster)
	state.Stats = testStats

	assert.Equal(t, DefaultSortState(), state.Sort)
	assert.Equal(t, []string{"dave", "alice", "bob", "carol", "erin"}, usernames(state.View()))

	state.SelectSort(SortByName)
	assert.Equal(t, SortState{SortByName, SortDescending}, state.Sort)
	state.SelectSort(SortByName)
	assert.Equal(t, SortState{SortByName, SortAscending}, state.Sort)

	state.SetTeamFilter("Web")
	state.SetRoleFilter("Backend")
	assert.Equal(t, []string{"dave"}, usernames(state.View()))

	state.ClearFilters()
	assert.Len(t, state.View(), len(testRoster))
}
