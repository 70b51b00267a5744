package aggregator

// NormalizeWeights maps a configured recency-weight vector onto the seasons
// actually present. present[i] reports whether the season at recency rank i
// (0 = most recent) was supplied. The weight of every missing rank is
// redistributed across the present ranks proportionally to their configured
// weights, so the returned weights always sum to exactly 1.0. Ranks beyond
// the configured vector carry no weight.
//
// Returns nil if no present rank has positive configured weight.
func NormalizeWeights(configured []float64, present []bool) []float64 {
	var presentSum float64
	for i, w := range configured {
		if i < len(present) && present[i] {
			presentSum += w
		}
	}
	if presentSum <= 0 {
		return nil
	}

	normalized := make([]float64, len(configured))
	for i, w := range configured {
		if i < len(present) && present[i] {
			normalized[i] = w / presentSum
		}
	}
	return normalized
}
