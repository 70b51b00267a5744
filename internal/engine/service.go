// Package engine wires the four core components behind one service the
// surrounding application consumes: profile aggregation through the
// cache, roster reconciliation, matchup simulation, and roster-move
// recommendation. The components themselves stay pure; everything
// touching the store, cache, or logger lives here.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hoopsim/fantasy-engine/internal/aggregator"
	"github.com/hoopsim/fantasy-engine/internal/cache"
	"github.com/hoopsim/fantasy-engine/internal/config"
	"github.com/hoopsim/fantasy-engine/internal/recommender"
	"github.com/hoopsim/fantasy-engine/internal/resolver"
	"github.com/hoopsim/fantasy-engine/internal/simulator"
	"github.com/hoopsim/fantasy-engine/internal/store"
	"github.com/hoopsim/fantasy-engine/internal/types"
)

// Service exposes the engine's four operations over a player store and
// roster provider.
type Service struct {
	cfg      *config.Config
	players  store.PlayerStore
	rosters  store.RosterProvider
	profiles cache.ProfileCache

	agg *aggregator.Aggregator
	res *resolver.Resolver
	sim *simulator.Simulator
	rec *recommender.Recommender

	log *logrus.Entry
}

func NewService(cfg *config.Config, players store.PlayerStore, rosters store.RosterProvider, profiles cache.ProfileCache, log *logrus.Entry) *Service {
	return &Service{
		cfg:      cfg,
		players:  players,
		rosters:  rosters,
		profiles: profiles,
		agg:      aggregator.New(cfg.SeasonWeights, cfg.VarianceFloor),
		res: resolver.New(resolver.Config{
			Threshold:    cfg.FuzzyMatchThreshold,
			AmbiguityGap: cfg.FuzzyAmbiguityGap,
			TeamAliases:  cfg.TeamAliases,
		}),
		sim: simulator.New(cfg.SimulationWorkers),
		rec: recommender.New(),
		log: log,
	}
}

// PlayerProfile aggregates one player's profile, serving it from the
// cache when a fresh entry exists for the current weight configuration.
func (s *Service) PlayerProfile(ctx context.Context, playerID string) (*types.PlayerProfile, error) {
	key := cache.Key(playerID, s.cfg.SeasonWeights)
	if s.profiles != nil {
		if cached, err := s.profiles.Get(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	seasons, err := s.players.SeasonStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seasons for %s: %w", playerID, err)
	}

	profile, err := s.agg.Aggregate(playerID, seasons)
	if err != nil {
		return nil, err
	}

	if s.profiles != nil {
		if err := s.profiles.Set(ctx, key, profile); err != nil {
			s.log.WithError(err).WithField("player_id", playerID).Warn("Failed to cache profile")
		}
	}
	return profile, nil
}

// TeamProfile combines a roster's member profiles into one team profile.
// Members that fail aggregation with insufficient data are skipped and
// reported, not fatal to the roster.
func (s *Service) TeamProfile(ctx context.Context, teamID string) (*types.PlayerProfile, []string, error) {
	roster, err := s.rosters.Roster(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.rosters.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}

	var members []*types.PlayerProfile
	var skipped []string
	for _, playerID := range roster {
		profile, err := s.PlayerProfile(ctx, playerID)
		if err != nil {
			if errors.Is(err, types.ErrInsufficientData) {
				skipped = append(skipped, playerID)
				continue
			}
			return nil, nil, err
		}
		members = append(members, profile)
	}

	return aggregator.CombineProfiles(teamID, categories, members...), skipped, nil
}

// ResolveRoster reconciles externally sourced roster references with the
// internal player store and summarizes the match rate.
func (s *Service) ResolveRoster(ctx context.Context, refs []types.ExternalRef) ([]types.IdentityMatch, resolver.Report, error) {
	records, err := s.players.Players(ctx)
	if err != nil {
		return nil, resolver.Report{}, err
	}

	pool := make([]resolver.Candidate, len(records))
	for i, rec := range records {
		pool[i] = resolver.Candidate{
			PlayerID:  rec.PlayerID,
			Name:      rec.Name,
			Team:      rec.Team,
			Positions: rec.Positions,
		}
	}

	matches := s.res.ResolveAll(refs, pool)
	report := resolver.BuildReport(matches)
	s.log.WithFields(logrus.Fields{
		"total":      report.Total,
		"matched":    report.Matched,
		"match_rate": report.MatchRate,
	}).Info("Roster reconciliation completed")

	return matches, report, nil
}

// SimulateMatchup simulates a head-to-head matchup between two fantasy
// teams. A non-positive trials falls back to the configured default.
func (s *Service) SimulateMatchup(ctx context.Context, teamA, teamB string, trials int, seed int64) (*types.MatchupResult, error) {
	if trials == 0 {
		trials = s.cfg.DefaultTrials
	}
	categories, err := s.rosters.Categories(ctx)
	if err != nil {
		return nil, err
	}

	profileA, skippedA, err := s.TeamProfile(ctx, teamA)
	if err != nil {
		return nil, err
	}
	profileB, skippedB, err := s.TeamProfile(ctx, teamB)
	if err != nil {
		return nil, err
	}
	if len(skippedA)+len(skippedB) > 0 {
		s.log.WithFields(logrus.Fields{
			"skipped_a": skippedA,
			"skipped_b": skippedB,
		}).Warn("Matchup simulated without insufficient-data roster members")
	}

	return s.sim.Simulate(profileA, profileB, categories, trials, seed)
}

// RecommendMoves ranks available players against a roster's weakest
// categories. Candidates whose aggregation fails with insufficient data
// are excluded and returned separately, never scored as zero.
func (s *Service) RecommendMoves(ctx context.Context, teamID string, topN int) ([]types.RecommendationEntry, []string, error) {
	categories, err := s.rosters.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}

	rosterProfile, _, err := s.TeamProfile(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	roster, err := s.rosters.Roster(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	onRoster := make(map[string]bool, len(roster))
	for _, id := range roster {
		onRoster[id] = true
	}

	records, err := s.players.Players(ctx)
	if err != nil {
		return nil, nil, err
	}

	var pool []*types.PlayerProfile
	var skipped []string
	for _, rec := range records {
		if onRoster[rec.PlayerID] {
			continue
		}
		profile, err := s.PlayerProfile(ctx, rec.PlayerID)
		if err != nil {
			if errors.Is(err, types.ErrInsufficientData) {
				skipped = append(skipped, rec.PlayerID)
				continue
			}
			return nil, nil, err
		}
		pool = append(pool, profile)
	}

	baseline := leagueBaseline(pool, categories, len(roster))

	entries, err := s.rec.Recommend(rosterProfile, baseline, pool, categories, topN)
	if err != nil {
		return nil, nil, err
	}
	return entries, skipped, nil
}

// leagueBaseline estimates the per-category league average for a roster
// of the given size: the mean per-player value across every profiled
// player, scaled up to roster size (percentage categories stay averages).
func leagueBaseline(pool []*types.PlayerProfile, categories types.CategorySet, rosterSize int) map[string]float64 {
	baseline := make(map[string]float64, categories.Len())
	if len(pool) == 0 || rosterSize == 0 {
		return baseline
	}
	n := float64(len(pool))
	for _, cat := range categories.Categories {
		var sum float64
		for _, p := range pool {
			sum += p.Values[cat.Name]
		}
		mean := sum / n
		if cat.Percentage {
			baseline[cat.Name] = mean
		} else {
			baseline[cat.Name] = mean * float64(rosterSize)
		}
	}
	return baseline
}
