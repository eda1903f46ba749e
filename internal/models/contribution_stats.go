package models

// ContributionStats holds the counters fetched for one GitHub user
type ContributionStats struct {
	Contributions int `json:"contributions"`
	PRs           int `json:"prs"`
	Issues        int `json:"issues"`
}

// StatsMap is keyed by username. A missing key means the stats are unknown,
// which is different from a fetched zero.
type StatsMap map[string]ContributionStats

// AvatarMap is keyed by username
type AvatarMap map[string]string

// AggregatedResponse is the body returned by the stats proxy
type AggregatedResponse struct {
	Stats   StatsMap  `json:"stats"`
	Avatars AvatarMap `json:"avatars"`
}

// StatsRequest is the body the dashboard sends to the stats proxy
type StatsRequest struct {
	Team []TeamMember `json:"team"`
}
