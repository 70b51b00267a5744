package resolver

import "github.com/hoopsim/fantasy-engine/internal/types"

// Report summarizes a batch of identity matches, e.g. "matched 12 of 13"
// when merging an external roster with the internal player store.
type Report struct {
	Total     int      `json:"total_players"`
	Matched   int      `json:"matched"`
	MatchRate float64  `json:"match_rate"`
	Unmatched []string `json:"unmatched_players,omitempty"`
}

// BuildReport aggregates individual match results into a match-rate summary.
func BuildReport(matches []types.IdentityMatch) Report {
	report := Report{Total: len(matches)}
	for _, m := range matches {
		if m.Matched() {
			report.Matched++
		} else {
			report.Unmatched = append(report.Unmatched, m.Ref.Name)
		}
	}
	if report.Total > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.Total)
	}
	return report
}
