package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsim/fantasy-engine/internal/cache"
	"github.com/hoopsim/fantasy-engine/internal/config"
	"github.com/hoopsim/fantasy-engine/internal/store"
	"github.com/hoopsim/fantasy-engine/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		SeasonWeights:       []float64{0.6, 0.3, 0.1},
		VarianceFloor:       0.25,
		FuzzyMatchThreshold: 0.80,
		FuzzyAmbiguityGap:   0.05,
		TeamAliases:         map[string]string{"Bkn": "BRK"},
		DefaultTrials:       500,
		SimulationWorkers:   2,
		Categories: types.CategorySet{Categories: []types.Category{
			{Name: "points", Volatility: 0.25},
			{Name: "assists", Volatility: 0.35},
			{Name: "turnovers", LowerIsBetter: true, Volatility: 0.30},
		}},
	}
}

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func season(games int, points, assists, turnovers float64) types.RawSeasonStats {
	return types.RawSeasonStats{
		Season:      "2025-26",
		GamesPlayed: games,
		PerGame: map[string]float64{
			"points":    points,
			"assists":   assists,
			"turnovers": turnovers,
		},
	}
}

func record(id, name, team string, seasons ...types.RawSeasonStats) store.PlayerRecord {
	return store.PlayerRecord{
		PlayerID:  id,
		Name:      name,
		Team:      team,
		Positions: []string{"PG"},
		Seasons:   seasons,
	}
}

func testService(t *testing.T, cfg *config.Config, records []store.PlayerRecord, rosters map[string][]string) *Service {
	t.Helper()
	st := store.NewMemoryStore(records, rosters, cfg.Categories)
	return NewService(cfg, st, st, cache.NewMemoryCache(time.Minute), quietLog())
}

func TestPlayerProfileWeightsRecentSeasons(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("vet", "Vet Guard", "BOS",
			season(70, 20, 5, 2),
			season(65, 10, 4, 3),
		),
	}, nil)

	profile, err := svc.PlayerProfile(context.Background(), "vet")
	require.NoError(t, err)

	// Two of three weighted seasons present: 0.6/0.9 and 0.3/0.9.
	assert.InDelta(t, 20*(2.0/3.0)+10*(1.0/3.0), profile.Values["points"], 1e-9)
	assert.Equal(t, 2, profile.Seasons)
}

func TestPlayerProfileServedFromCache(t *testing.T) {
	cfg := testConfig()
	profiles := cache.NewMemoryCache(time.Minute)
	st := store.NewMemoryStore([]store.PlayerRecord{
		record("p1", "Player One", "BOS", season(70, 20, 5, 2)),
	}, nil, cfg.Categories)
	svc := NewService(cfg, st, st, profiles, quietLog())
	ctx := context.Background()

	first, err := svc.PlayerProfile(ctx, "p1")
	require.NoError(t, err)

	cached, err := profiles.Get(ctx, cache.Key("p1", cfg.SeasonWeights))
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, first, cached)

	again, err := svc.PlayerProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Same(t, cached, again, "second lookup must be the cached profile")
}

func TestPlayerProfileInsufficientData(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("rookie", "First Year", "BRK"),
	}, nil)

	_, err := svc.PlayerProfile(context.Background(), "rookie")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInsufficientData)
}

func TestTeamProfileSkipsInsufficientMembers(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("r1", "Roster One", "BOS", season(70, 20, 3, 2)),
		record("r2", "Roster Two", "BOS", season(70, 18, 4, 2)),
		record("rookie", "First Year", "BOS"),
	}, map[string][]string{
		"team-x": {"r1", "r2", "rookie"},
	})

	profile, skipped, err := svc.TeamProfile(context.Background(), "team-x")
	require.NoError(t, err)
	assert.Equal(t, []string{"rookie"}, skipped)
	assert.InDelta(t, 38.0, profile.Values["points"], 1e-9)
	assert.InDelta(t, 7.0, profile.Values["assists"], 1e-9)
}

func TestTeamProfileUnknownTeam(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, nil, map[string][]string{})

	_, _, err := svc.TeamProfile(context.Background(), "nope")
	require.Error(t, err)
}

func TestResolveRoster(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("1", "Luka Dončić", "DAL", season(70, 28, 8, 4)),
		record("2", "Nikola Jokić", "DEN", season(70, 26, 9, 3)),
	}, nil)

	matches, report, err := svc.ResolveRoster(context.Background(), []types.ExternalRef{
		{Name: "Luka Doncic"},
		{Name: "Somebody Else"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "1", matches[0].PlayerID)
	assert.Equal(t, types.MatchExact, matches[0].Method)
	assert.Equal(t, types.MatchUnmatched, matches[1].Method)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Matched)
	assert.InDelta(t, 0.5, report.MatchRate, 1e-9)
}

func TestSimulateMatchupEndToEnd(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("a1", "A One", "BOS", season(70, 25, 6, 2)),
		record("a2", "A Two", "BOS", season(70, 22, 5, 2)),
		record("b1", "B One", "MIA", season(70, 15, 3, 3)),
		record("b2", "B Two", "MIA", season(70, 14, 3, 3)),
	}, map[string][]string{
		"team-a": {"a1", "a2"},
		"team-b": {"b1", "b2"},
	})
	ctx := context.Background()

	// trials == 0 falls back to the configured default.
	result, err := svc.SimulateMatchup(ctx, "team-a", "team-b", 0, 42)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultTrials, result.Trials)
	assert.Greater(t, result.OverallA, result.OverallB, "the stronger roster must be favored")
	assert.InDelta(t, 1.0, result.OverallA+result.OverallB+result.OverallTie, 1e-9)

	repeat, err := svc.SimulateMatchup(ctx, "team-a", "team-b", 0, 42)
	require.NoError(t, err)
	assert.Equal(t, result, repeat, "same seed must reproduce the matchup")
}

func TestRecommendMovesRanksFreeAgents(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("r1", "Roster One", "BOS", season(70, 20, 3, 2)),
		record("r2", "Roster Two", "BOS", season(70, 18, 4, 2)),
		record("f1", "Free One", "MIA", season(70, 15, 8, 2)),
		record("f2", "Free Two", "MIA", season(70, 25, 2, 3)),
		record("f3", "Free Three", "MIA", season(70, 10, 3, 1)),
		record("rookie", "First Year", "MIA"),
	}, map[string][]string{
		"team-x": {"r1", "r2"},
	})

	entries, skipped, err := svc.RecommendMoves(context.Background(), "team-x", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"rookie"}, skipped)
	require.Len(t, entries, 3)

	// Roster totals 7 assists against a baseline of (13/3)*2; assists is
	// the only trailing category, so the best passer ranks first.
	assert.Equal(t, "f1", entries[0].PlayerID)
	assert.Equal(t, []string{"assists"}, entries[0].DrivingCategories)

	for _, entry := range entries {
		assert.NotContains(t, []string{"r1", "r2"}, entry.PlayerID, "roster members are never recommended")
	}
}

func TestRecommendMovesInvalidTopN(t *testing.T) {
	cfg := testConfig()
	svc := testService(t, cfg, []store.PlayerRecord{
		record("r1", "Roster One", "BOS", season(70, 20, 3, 2)),
	}, map[string][]string{"team-x": {"r1"}})

	_, _, err := svc.RecommendMoves(context.Background(), "team-x", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}
