package models

// LookupOutcome classifies a single upstream lookup
type LookupOutcome int

const (
	LookupOK LookupOutcome = iota
	LookupNotFound
	LookupUpstreamError
)

func (o LookupOutcome) String() string {
	switch o {
	case LookupOK:
		return "ok"
	case LookupNotFound:
		return "not_found"
	case LookupUpstreamError:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// LookupResult is the outcome of looking up one roster member upstream.
// AvatarURL and Stats are only meaningful when Outcome is LookupOK.
type LookupResult struct {
	Username  string
	Outcome   LookupOutcome
	AvatarURL string
	Stats     ContributionStats
	Err       error
}

// FoundResult builds a successful lookup result
func FoundResult(username, avatarURL string, stats ContributionStats) LookupResult {
	return LookupResult{Username: username, Outcome: LookupOK, AvatarURL: avatarURL, Stats: stats}
}

// NotFoundResult builds a result for a login the upstream does not know
func NotFoundResult(username string) LookupResult {
	return LookupResult{Username: username, Outcome: LookupNotFound}
}

// ErrorResult builds a result for a failed upstream request
func ErrorResult(username string, err error) LookupResult {
	return LookupResult{Username: username, Outcome: LookupUpstreamError, Err: err}
}

// Reduce folds lookup results into the proxy response. Every result gets an
// avatar entry; only successful lookups get a stats entry.
func Reduce(results []LookupResult, fallbackAvatar string) AggregatedResponse {
	resp := AggregatedResponse{
		Stats:   make(StatsMap, len(results)),
		Avatars: make(AvatarMap, len(results)),
	}

	for _, r := range results {
		if r.Outcome != LookupOK {
			resp.Avatars[r.Username] = fallbackAvatar
			continue
		}

		resp.Stats[r.Username] = r.Stats
		if r.AvatarURL == "" {
			resp.Avatars[r.Username] = fallbackAvatar
		} else {
			resp.Avatars[r.Username] = r.AvatarURL
		}
	}

	return resp
}
