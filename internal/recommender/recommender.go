// Package recommender ranks available players by how much they shore up
// a roster's weakest categories. A roster trailing the league baseline in
// a category gives that category a need weight proportional to the
// normalized deficit; candidates are scored by need-weighted,
// direction-adjusted category value.
package recommender

import (
	"sort"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// Recommender holds no state beyond configuration and is safe for
// concurrent use.
type Recommender struct{}

func New() *Recommender {
	return &Recommender{}
}

// needWeight is one category's priority, derived from how far the roster
// trails the baseline in it.
type needWeight struct {
	category string
	weight   float64
}

// Recommend scores every candidate in the pool against the roster's need
// categories and returns the topN highest-value entries, strictly ordered
// by descending score with ascending player ID as tie-break. A pool
// shorter than topN returns all eligible candidates.
func (r *Recommender) Recommend(rosterProfile *types.PlayerProfile, baseline map[string]float64, pool []*types.PlayerProfile, categories types.CategorySet, topN int) ([]types.RecommendationEntry, error) {
	if topN < 1 {
		return nil, &types.InvalidParameterError{Param: "topN", Reason: "must be a positive integer"}
	}
	if categories.Len() == 0 {
		return nil, &types.InvalidParameterError{Param: "categories", Reason: "category set must not be empty"}
	}

	needs := computeNeeds(rosterProfile, baseline, categories)

	entries := make([]types.RecommendationEntry, 0, len(pool))
	for _, candidate := range pool {
		if candidate == nil {
			continue
		}
		entries = append(entries, types.RecommendationEntry{
			PlayerID:          candidate.PlayerID,
			Score:             scoreCandidate(candidate, needs, categories),
			DrivingCategories: drivingCategories(needs),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}

// computeNeeds derives the per-category need weights: the roster's
// normalized deficit against the baseline, direction-aware and clamped
// to [0,1]. Categories at or above baseline carry zero need.
func computeNeeds(roster *types.PlayerProfile, baseline map[string]float64, categories types.CategorySet) []needWeight {
	needs := make([]needWeight, 0, categories.Len())
	for _, cat := range categories.Categories {
		base := baseline[cat.Name]
		if base == 0 {
			continue
		}
		have := roster.Values[cat.Name]

		var deficit float64
		if cat.LowerIsBetter {
			deficit = (have - base) / base
		} else {
			deficit = (base - have) / base
		}
		if deficit <= 0 {
			continue
		}
		if deficit > 1 {
			deficit = 1
		}
		needs = append(needs, needWeight{category: cat.Name, weight: deficit})
	}
	return needs
}

// scoreCandidate is the need-weighted value of a candidate: Σ over need
// categories of weight × per-category scalar, negated for lower-is-better
// categories so turnovers pull the score down.
func scoreCandidate(candidate *types.PlayerProfile, needs []needWeight, categories types.CategorySet) float64 {
	direction := make(map[string]bool, categories.Len())
	for _, cat := range categories.Categories {
		direction[cat.Name] = cat.LowerIsBetter
	}

	var score float64
	for _, need := range needs {
		value := candidate.Values[need.category]
		if direction[need.category] {
			score -= need.weight * value
		} else {
			score += need.weight * value
		}
	}
	return score
}

// drivingCategories orders the need categories strongest first, name as
// tie-break so the ordering never depends on map iteration.
func drivingCategories(needs []needWeight) []string {
	ordered := make([]needWeight, len(needs))
	copy(ordered, needs)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].weight != ordered[j].weight {
			return ordered[i].weight > ordered[j].weight
		}
		return ordered[i].category < ordered[j].category
	})

	names := make([]string, len(ordered))
	for i, n := range ordered {
		names[i] = n.category
	}
	return names
}
