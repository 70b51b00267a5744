package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

func needCategories() types.CategorySet {
	return types.CategorySet{Categories: []types.Category{
		{Name: "points"},
		{Name: "assists"},
		{Name: "turnovers", LowerIsBetter: true},
	}}
}

func candidate(id string, points, assists, turnovers float64) *types.PlayerProfile {
	return &types.PlayerProfile{
		PlayerID: id,
		Values:   map[string]float64{"points": points, "assists": assists, "turnovers": turnovers},
		Variance: map[string]float64{"points": 1, "assists": 1, "turnovers": 1},
		Seasons:  2,
	}
}

func TestRecommendFillsWeakestCategory(t *testing.T) {
	rec := New()
	// Roster trails the baseline only in assists.
	roster := candidate("roster", 100, 8.0, 12)
	baseline := map[string]float64{"points": 100, "assists": 9.0, "turnovers": 12}
	pool := []*types.PlayerProfile{
		candidate("big-scorer", 28, 2.0, 3),
		candidate("playmaker", 14, 9.5, 3),
	}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "playmaker", entries[0].PlayerID)
	assert.Equal(t, []string{"assists"}, entries[0].DrivingCategories)
	assert.Greater(t, entries[0].Score, entries[1].Score)
}

func TestRecommendLowerIsBetterPenalizes(t *testing.T) {
	rec := New()
	// Roster has too many turnovers; the careful candidate must outrank
	// the turnover machine even though both fill the need direction.
	roster := candidate("roster", 100, 25, 18)
	baseline := map[string]float64{"points": 100, "assists": 25, "turnovers": 12}
	pool := []*types.PlayerProfile{
		candidate("careless", 20, 5, 4.5),
		candidate("careful", 20, 5, 1.0),
	}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "careful", entries[0].PlayerID)
	assert.Negative(t, entries[0].Score)
	assert.Equal(t, []string{"turnovers"}, entries[0].DrivingCategories)
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	rec := New()
	roster := candidate("roster", 90, 8, 12)
	baseline := map[string]float64{"points": 100, "assists": 9, "turnovers": 12}
	pool := []*types.PlayerProfile{
		candidate("bbb", 20, 5, 2),
		candidate("aaa", 20, 5, 2),
		candidate("ccc", 20, 5, 2),
	}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "aaa", entries[0].PlayerID)
	assert.Equal(t, "bbb", entries[1].PlayerID)
	assert.Equal(t, "ccc", entries[2].PlayerID)
	assert.Equal(t, entries[0].Score, entries[1].Score)
}

func TestRecommendTruncatesToTopN(t *testing.T) {
	rec := New()
	roster := candidate("roster", 90, 8, 12)
	baseline := map[string]float64{"points": 100, "assists": 9, "turnovers": 12}
	pool := []*types.PlayerProfile{
		candidate("p1", 30, 4, 2),
		candidate("p2", 25, 4, 2),
		candidate("p3", 20, 4, 2),
		candidate("p4", 15, 4, 2),
	}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].PlayerID)
	assert.Equal(t, "p2", entries[1].PlayerID)
}

func TestRecommendNoNeedsScoresZero(t *testing.T) {
	rec := New()
	// Roster meets or beats the baseline everywhere.
	roster := candidate("roster", 110, 10, 10)
	baseline := map[string]float64{"points": 100, "assists": 9, "turnovers": 12}
	pool := []*types.PlayerProfile{candidate("anyone", 30, 8, 2)}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].Score)
	assert.Empty(t, entries[0].DrivingCategories)
}

func TestRecommendDeficitClampedToOne(t *testing.T) {
	rec := New()
	// Roster at zero assists: raw deficit is 1.0 and must not exceed it.
	roster := candidate("roster", 100, 0, 12)
	baseline := map[string]float64{"points": 100, "assists": 9, "turnovers": 12}
	pool := []*types.PlayerProfile{candidate("dimes", 10, 8, 2)}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 8.0, entries[0].Score, 1e-9)
}

func TestRecommendInvalidParameters(t *testing.T) {
	rec := New()
	roster := candidate("roster", 100, 8, 12)
	baseline := map[string]float64{"points": 100}
	pool := []*types.PlayerProfile{candidate("p1", 20, 5, 2)}

	_, err := rec.Recommend(roster, baseline, pool, needCategories(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)

	_, err = rec.Recommend(roster, baseline, pool, types.CategorySet{}, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidParameter)
}

func TestRecommendEmptyPool(t *testing.T) {
	rec := New()
	roster := candidate("roster", 100, 8, 12)
	baseline := map[string]float64{"points": 100, "assists": 9}

	entries, err := rec.Recommend(roster, baseline, nil, needCategories(), 3)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecommendSkipsNilCandidates(t *testing.T) {
	rec := New()
	roster := candidate("roster", 90, 8, 12)
	baseline := map[string]float64{"points": 100, "assists": 9, "turnovers": 12}
	pool := []*types.PlayerProfile{nil, candidate("p1", 20, 5, 2), nil}

	entries, err := rec.Recommend(roster, baseline, pool, needCategories(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "p1", entries[0].PlayerID)
}
