package aggregator

import (
	"gonum.org/v1/gonum/stat"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// Aggregator collapses multi-season raw statistics into weighted
// performance profiles. It holds configuration only and is safe for
// concurrent use.
type Aggregator struct {
	weights       []float64
	varianceFloor float64
}

// New returns an Aggregator using the given recency weights (most recent
// season first, summing to 1.0) and variance floor.
func New(weights []float64, varianceFloor float64) *Aggregator {
	w := make([]float64, len(weights))
	copy(w, weights)
	return &Aggregator{weights: w, varianceFloor: varianceFloor}
}

// Aggregate builds a player's weighted profile from raw season stats
// ordered newest-first. Seasons without any games played carry no
// observation and are treated as absent; if nothing remains the call
// fails with InsufficientDataError rather than producing a zero profile.
func (a *Aggregator) Aggregate(playerID string, seasons []types.RawSeasonStats) (*types.PlayerProfile, error) {
	present := make([]bool, len(seasons))
	presentCount := 0
	for i, s := range seasons {
		if s.GamesPlayed > 0 {
			present[i] = true
			presentCount++
		}
	}
	if presentCount == 0 {
		return nil, &types.InsufficientDataError{PlayerID: playerID}
	}

	weights := NormalizeWeights(a.weights, present)
	if weights == nil {
		// Every present season ranks beyond the configured weights.
		return nil, &types.InsufficientDataError{PlayerID: playerID}
	}

	categories := categoryUnion(seasons, present)

	profile := &types.PlayerProfile{
		PlayerID: playerID,
		Values:   make(map[string]float64, len(categories)),
		Variance: make(map[string]float64, len(categories)),
		Seasons:  presentCount,
	}

	for _, cat := range categories {
		values := make([]float64, 0, presentCount)
		catWeights := make([]float64, 0, presentCount)
		for i, s := range seasons {
			if i >= len(weights) || weights[i] == 0 {
				continue
			}
			values = append(values, s.PerGame[cat])
			catWeights = append(catWeights, weights[i])
		}

		mean, variance := stat.PopMeanVariance(values, catWeights)
		if len(values) < 2 || variance < a.varianceFloor {
			variance = a.varianceFloor
		}

		profile.Values[cat] = mean
		profile.Variance[cat] = variance
	}

	return profile, nil
}

// EffectiveWeights exposes the normalized weights the Aggregator would
// apply to a presence mask. Used by profile cache keys and tests.
func (a *Aggregator) EffectiveWeights(present []bool) []float64 {
	return NormalizeWeights(a.weights, present)
}

// CombineProfiles folds roster members' profiles into one team profile.
// Counting categories sum across members, percentage categories average;
// variances combine accordingly. Member profiles must come from the same
// weight configuration.
func CombineProfiles(teamID string, categories types.CategorySet, members ...*types.PlayerProfile) *types.PlayerProfile {
	combined := &types.PlayerProfile{
		PlayerID: teamID,
		Values:   make(map[string]float64, categories.Len()),
		Variance: make(map[string]float64, categories.Len()),
	}
	if len(members) == 0 {
		return combined
	}

	n := float64(len(members))
	for _, cat := range categories.Categories {
		var valueSum, varSum float64
		for _, m := range members {
			valueSum += m.Values[cat.Name]
			varSum += m.Variance[cat.Name]
		}
		if cat.Percentage {
			combined.Values[cat.Name] = valueSum / n
			combined.Variance[cat.Name] = varSum / (n * n)
		} else {
			combined.Values[cat.Name] = valueSum
			combined.Variance[cat.Name] = varSum
		}
	}
	for _, m := range members {
		if m.Seasons > combined.Seasons {
			combined.Seasons = m.Seasons
		}
	}
	return combined
}

func categoryUnion(seasons []types.RawSeasonStats, present []bool) []string {
	seen := make(map[string]bool)
	var categories []string
	for i, s := range seasons {
		if !present[i] {
			continue
		}
		for cat := range s.PerGame {
			if !seen[cat] {
				seen[cat] = true
				categories = append(categories, cat)
			}
		}
	}
	return categories
}
