package types

// RawSeasonStats represents one season of per-game statistics for a player
// as returned by the player store. Records are never mutated after load.
type RawSeasonStats struct {
	Season      string             `json:"season"`
	GamesPlayed int                `json:"games_played"`
	PerGame     map[string]float64 `json:"per_game"`
}

// PlayerProfile is a player's (or combined team's) weighted scalar-per-category
// summary derived from raw multi-season stats. Variance holds the weighted
// population variance per category and parameterizes simulated week-to-week
// spread.
type PlayerProfile struct {
	PlayerID string             `json:"player_id"`
	Values   map[string]float64 `json:"values"`
	Variance map[string]float64 `json:"variance"`
	Seasons  int                `json:"seasons"`
}

// Category describes a single scoring dimension of a league.
type Category struct {
	Name string `json:"name"`
	// LowerIsBetter inverts comparisons for categories like turnovers.
	LowerIsBetter bool `json:"lower_is_better"`
	// Percentage categories are bounded [0,1]: clamped rather than floored
	// in simulation, averaged rather than summed when profiles combine.
	Percentage bool `json:"percentage"`
	// Volatility scales simulated spread for the category. Zero means 1.0.
	Volatility float64 `json:"volatility,omitempty"`
}

// CategorySet is a league's ordered scoring configuration. It is supplied
// externally and treated as read-only by the simulator and recommender.
type CategorySet struct {
	Categories []Category `json:"categories"`
}

// Names returns the category names in configured order.
func (cs CategorySet) Names() []string {
	names := make([]string, len(cs.Categories))
	for i, c := range cs.Categories {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of categories in the set.
func (cs CategorySet) Len() int { return len(cs.Categories) }

// CategoryOutcome holds win/loss/tie probabilities for one category,
// from side A's perspective.
type CategoryOutcome struct {
	Category string  `json:"category"`
	WinA     float64 `json:"win_a"`
	WinB     float64 `json:"win_b"`
	Tie      float64 `json:"tie"`
}

// MatchupResult is the outcome distribution of a simulated head-to-head
// matchup. Recomputed per request, never persisted.
type MatchupResult struct {
	Categories []CategoryOutcome `json:"categories"`
	OverallA   float64           `json:"overall_a"`
	OverallB   float64           `json:"overall_b"`
	OverallTie float64           `json:"overall_tie"`
	Trials     int               `json:"trials"`
}

// RecommendationEntry is one ranked roster-move candidate.
type RecommendationEntry struct {
	PlayerID string `json:"player_id"`
	// Score is the need-weighted value of the candidate for the roster.
	Score float64 `json:"score"`
	// DrivingCategories lists the need categories that contributed to the
	// score, strongest need first.
	DrivingCategories []string `json:"driving_categories"`
}

// MatchMethod tags how an external reference was resolved.
type MatchMethod string

const (
	MatchExact        MatchMethod = "exact"
	MatchFuzzy        MatchMethod = "fuzzy"
	MatchTeamPosition MatchMethod = "team_position"
	MatchUnmatched    MatchMethod = "unmatched"
)

// ExternalRef is an externally sourced player reference awaiting
// reconciliation with the internal player store.
type ExternalRef struct {
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Positions []string `json:"positions"`
}

// IdentityMatch is the result of resolving one external reference.
// An unmatched reference is an expected outcome, not an error.
type IdentityMatch struct {
	Ref        ExternalRef `json:"ref"`
	PlayerID   string      `json:"player_id,omitempty"`
	Method     MatchMethod `json:"method"`
	Confidence float64     `json:"confidence"`
}

// Matched reports whether the reference resolved to an internal player.
func (m IdentityMatch) Matched() bool { return m.Method != MatchUnmatched }
