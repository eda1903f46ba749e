package services

import (
	"context"
	"fmt"

	"github.com/alimgiray/commitboard/internal/models"
)

// StatsFetcher is how the dashboard reaches the stats proxy
type StatsFetcher interface {
	FetchStats(ctx context.Context, team []models.TeamMember) (models.AggregatedResponse, error)
}

// DashboardState is the state of one dashboard page load
type DashboardState struct {
	Roster  []models.TeamMember
	Stats   models.StatsMap
	Avatars models.AvatarMap
	Loading bool
	Error   string
	Sort    SortState
	Filters Filters
}

func NewDashboardState(roster []models.TeamMember) *DashboardState {
	return &DashboardState{
		Roster:  roster,
		Stats:   models.StatsMap{},
		Avatars: models.AvatarMap{},
		Sort:    DefaultSortState(),
		Filters: NoFilters(),
	}
}

// Load fetches stats for the whole roster once. On success stats and avatars
// are replaced wholesale; on failure they keep their previous values and Error
// is set. If ctx is done by the time the fetch returns, the result is dropped
// and the state is left alone.
func (s *DashboardState) Load(ctx context.Context, fetcher StatsFetcher) error {
	s.Loading = true
	s.Error = ""

	resp, err := fetcher.FetchStats(ctx, s.Roster)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	s.Loading = false
	if err != nil {
		s.Error = fmt.Sprintf("Failed to load GitHub stats: %v", err)
		return err
	}

	s.Stats = resp.Stats
	if s.Stats == nil {
		s.Stats = models.StatsMap{}
	}
	s.Avatars = resp.Avatars
	if s.Avatars == nil {
		s.Avatars = models.AvatarMap{}
	}
	return nil
}

// SelectSort applies the sort toggle for key
func (s *DashboardState) SelectSort(key SortKey) {
	s.Sort = s.Sort.Toggle(key)
}

func (s *DashboardState) SetTeamFilter(team string) {
	s.Filters.Team = team
}

func (s *DashboardState) SetRoleFilter(role string) {
	s.Filters.Role = role
}

func (s *DashboardState) ClearFilters() {
	s.Filters = NoFilters()
}

// View returns the derived, filtered and sorted member list
func (s *DashboardState) View() []models.TeamMember {
	return DeriveView(s.Roster, s.Stats, s.Filters, s.Sort)
}
