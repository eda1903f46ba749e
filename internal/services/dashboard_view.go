package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alimgiray/commitboard/internal/models"
)

type SortKey string

const (
	SortByName          SortKey = "name"
	SortByContributions SortKey = "contributions"
	SortByPRs           SortKey = "prs"
	SortByIssues        SortKey = "issues"
)

// SortKeys lists the keys in the order the controls show them
var SortKeys = []SortKey{SortByName, SortByContributions, SortByPRs, SortByIssues}

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// FilterAll disables a team or role filter
const FilterAll = "all"

type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSortState is what a fresh page load starts with
func DefaultSortState() SortState {
	return SortState{Key: SortByContributions, Direction: SortDescending}
}

// Toggle selects key. Reselecting the current key flips the direction,
// selecting a different key starts it descending.
func (s SortState) Toggle(key SortKey) SortState {
	if key == s.Key {
		if s.Direction == SortDescending {
			return SortState{Key: key, Direction: SortAscending}
		}
		return SortState{Key: key, Direction: SortDescending}
	}
	return SortState{Key: key, Direction: SortDescending}
}

// ParseSortKey accepts one of the known sort keys
func ParseSortKey(value string) (SortKey, bool) {
	for _, key := range SortKeys {
		if string(key) == value {
			return key, true
		}
	}
	return "", false
}

// ParseSortDirection accepts "asc" or "desc"
func ParseSortDirection(value string) (SortDirection, bool) {
	switch SortDirection(value) {
	case SortAscending, SortDescending:
		return SortDirection(value), true
	}
	return "", false
}

type Filters struct {
	Team string
	Role string
}

// NoFilters keeps every member
func NoFilters() Filters {
	return Filters{Team: FilterAll, Role: FilterAll}
}

// Matches reports whether member passes both filters. An empty filter value counts as "all".
func (f Filters) Matches(member models.TeamMember) bool {
	if f.Team != "" && f.Team != FilterAll && member.Team != f.Team {
		return false
	}
	if f.Role != "" && f.Role != FilterAll && member.Role != f.Role {
		return false
	}
	return true
}

// IsActive reports whether any filter narrows the roster
func (f Filters) IsActive() bool {
	return (f.Team != "" && f.Team != FilterAll) || (f.Role != "" && f.Role != FilterAll)
}

// DeriveView filters the roster and sorts it by the selected key. Unknown stats
// sort as zero. The sort is stable, so equal keys keep roster order in both directions.
// The roster itself is never modified.
func DeriveView(roster []models.TeamMember, stats models.StatsMap, filters Filters, state SortState) []models.TeamMember {
	view := make([]models.TeamMember, 0, len(roster))
	for _, member := range roster {
		if filters.Matches(member) {
			view = append(view, member)
		}
	}

	less := comparator(state.Key, stats)
	sort.SliceStable(view, func(i, j int) bool {
		if state.Direction == SortAscending {
			return less(view[i], view[j])
		}
		return less(view[j], view[i])
	})

	return view
}

func comparator(key SortKey, stats models.StatsMap) func(a, b models.TeamMember) bool {
	switch key {
	case SortByContributions, SortByPRs, SortByIssues:
		return func(a, b models.TeamMember) bool {
			return statValue(stats, a.Username, key) < statValue(stats, b.Username, key)
		}
	default:
		return func(a, b models.TeamMember) bool {
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		}
	}
}

func statValue(stats models.StatsMap, username string, key SortKey) int {
	s, ok := stats[username]
	if !ok {
		return 0
	}
	switch key {
	case SortByContributions:
		return s.Contributions
	case SortByPRs:
		return s.PRs
	case SortByIssues:
		return s.Issues
	}
	return 0
}

// UniqueTeams returns the sorted distinct non-empty teams of the roster
func UniqueTeams(roster []models.TeamMember) []string {
	return uniqueValues(roster, func(m models.TeamMember) string { return m.Team })
}

// UniqueRoles returns the sorted distinct non-empty roles of the roster
func UniqueRoles(roster []models.TeamMember) []string {
	return uniqueValues(roster, func(m models.TeamMember) string { return m.Role })
}

func uniqueValues(roster []models.TeamMember, field func(models.TeamMember) string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, member := range roster {
		v := field(member)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// UnknownStat is shown in place of a stat that was never fetched
const UnknownStat = "-"

// Card is one rendered member of the derived view
type Card struct {
	Member      models.TeamMember
	Stats       *models.ContributionStats
	AvatarURL   string
	CalendarURL string
}

// NewCards pairs each member of view with its fetched stats and avatar
func NewCards(view []models.TeamMember, stats models.StatsMap, avatars models.AvatarMap, fallbackAvatar, calendarTemplate string) []Card {
	cards := make([]Card, 0, len(view))
	for _, member := range view {
		card := Card{
			Member:      member,
			AvatarURL:   fallbackAvatar,
			CalendarURL: fmt.Sprintf(calendarTemplate, member.Username),
		}
		if s, ok := stats[member.Username]; ok {
			card.Stats = &s
		}
		if url := avatars[member.Username]; url != "" {
			card.AvatarURL = url
		}
		cards = append(cards, card)
	}
	return cards
}

func (c Card) Contributions() string {
	if c.Stats == nil {
		return UnknownStat
	}
	return strconv.Itoa(c.Stats.Contributions)
}

func (c Card) PRs() string {
	if c.Stats == nil {
		return UnknownStat
	}
	return strconv.Itoa(c.Stats.PRs)
}

func (c Card) Issues() string {
	if c.Stats == nil {
		return UnknownStat
	}
	return strconv.Itoa(c.Stats.Issues)
}
