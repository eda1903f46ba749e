package services

import (
	"context"
	"fmt"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/alimgiray/commitboard/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// UserLookup resolves a single GitHub login. Implementations report failures
// inside the result rather than returning an error.
type UserLookup interface {
	HasCredential() bool
	LookupUser(ctx context.Context, login string) models.LookupResult
}

type StatsService struct {
	lookup         UserLookup
	fallbackAvatar string
	maxConcurrency int
}

func NewStatsService(lookup UserLookup, fallbackAvatar string, maxConcurrency int) *StatsService {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &StatsService{
		lookup:         lookup,
		fallbackAvatar: fallbackAvatar,
		maxConcurrency: maxConcurrency,
	}
}

// FallbackAvatar returns the avatar reference used when no URL is known
func (s *StatsService) FallbackAvatar() string {
	return s.fallbackAvatar
}

// FetchStats looks up every member of team once and folds the outcomes into
// a single response. Per-member failures only degrade that member's entry.
func (s *StatsService) FetchStats(ctx context.Context, team []models.TeamMember) (models.AggregatedResponse, error) {
	if err := ValidateTeam(team); err != nil {
		return models.AggregatedResponse{}, err
	}
	if !s.lookup.HasCredential() {
		return models.AggregatedResponse{}, ErrCredentialMissing
	}

	results := make([]models.LookupResult, len(team))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, member := range team {
		g.Go(func() error {
			results[i] = s.lookupIsolated(ctx, member.Username)
			return nil
		})
	}
	// lookups never return errors, so Wait only synchronizes
	_ = g.Wait()

	resp := models.Reduce(results, s.fallbackAvatar)

	logger.WithFields(logrus.Fields{
		"members":  len(team),
		"resolved": len(resp.Stats),
	}).Info("Fetched contribution stats")

	return resp, nil
}

// LookupOne resolves a single login for the single-user endpoint. Unlike
// FetchStats, an upstream failure is returned as an error.
func (s *StatsService) LookupOne(ctx context.Context, username string) (models.LookupResult, error) {
	if username == "" {
		return models.LookupResult{}, ErrInvalidRoster
	}
	if !s.lookup.HasCredential() {
		return models.LookupResult{}, ErrCredentialMissing
	}

	result := s.lookupIsolated(ctx, username)
	if result.Outcome == models.LookupUpstreamError {
		return result, result.Err
	}
	return result, nil
}

// lookupIsolated runs one lookup and turns a panic into an upstream error result
func (s *StatsService) lookupIsolated(ctx context.Context, username string) (result models.LookupResult) {
	defer func() {
		if r := recover(); r != nil {
			result = models.ErrorResult(username, fmt.Errorf("%w: lookup panicked: %v", ErrUpstream, r))
		}
		if result.Outcome != models.LookupOK {
			entry := logger.WithFields(logrus.Fields{
				"username": username,
				"outcome":  result.Outcome.String(),
			})
			if result.Err != nil {
				entry = entry.WithError(result.Err)
			}
			entry.Warn("GitHub lookup failed, using fallback avatar")
		}
	}()

	result = s.lookup.LookupUser(ctx, username)
	result.Username = username
	return result
}

// ValidateTeam checks the roster sent to the proxy: it must be a list and
// every member must carry a username.
func ValidateTeam(team []models.TeamMember) error {
	if team == nil {
		return ErrInvalidRoster
	}
	for i, member := range team {
		if member.Username == "" {
			return fmt.Errorf("%w: member %d has no username", ErrInvalidRoster, i)
		}
	}
	return nil
}
