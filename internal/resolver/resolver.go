// Package resolver reconciles externally sourced player references with
// internal player records. Matching runs as an ordered sequence of pure
// tiers tried in order with short-circuit on first success: exact
// normalized-name equality, edit-distance fuzzy matching with an
// ambiguity guard, then a team+position fallback. A reference no tier
// can place resolves as unmatched, which callers report in aggregate
// rather than treat as an error.
package resolver

import (
	"sort"
	"strings"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// Candidate is an internal player record the resolver can match against.
type Candidate struct {
	PlayerID  string   `json:"player_id"`
	Name      string   `json:"name"`
	Team      string   `json:"team"`
	Positions []string `json:"positions"`
}

// Config carries the resolver's tunables. Threshold and AmbiguityGap
// default to 0.80 and 0.05; both are implementation choices to calibrate
// against observed match rates, not fixed law.
type Config struct {
	Threshold    float64
	AmbiguityGap float64
	TeamAliases  map[string]string
}

// Resolver matches external references against a candidate pool. It holds
// configuration only and is safe for concurrent use.
type Resolver struct {
	cfg Config
}

func New(cfg Config) *Resolver {
	if cfg.Threshold == 0 {
		cfg.Threshold = 0.80
	}
	if cfg.AmbiguityGap == 0 {
		cfg.AmbiguityGap = 0.05
	}
	return &Resolver{cfg: cfg}
}

// Resolve maps one external reference onto the candidate pool entry it most
// likely denotes, tagging the result with the tier that produced it.
func (r *Resolver) Resolve(ref types.ExternalRef, pool []Candidate) types.IdentityMatch {
	match := types.IdentityMatch{Ref: ref, Method: types.MatchUnmatched}

	if id, ok := r.matchExact(ref, pool); ok {
		match.PlayerID = id
		match.Method = types.MatchExact
		match.Confidence = 1.0
		return match
	}

	if id, score, ok := r.matchFuzzy(ref, pool); ok {
		match.PlayerID = id
		match.Method = types.MatchFuzzy
		match.Confidence = score
		return match
	}

	if id, ok := r.matchTeamPosition(ref, pool); ok {
		match.PlayerID = id
		match.Method = types.MatchTeamPosition
		match.Confidence = 0.5
		return match
	}

	return match
}

// ResolveAll resolves a batch of references against the same pool.
func (r *Resolver) ResolveAll(refs []types.ExternalRef, pool []Candidate) []types.IdentityMatch {
	matches := make([]types.IdentityMatch, len(refs))
	for i, ref := range refs {
		matches[i] = r.Resolve(ref, pool)
	}
	return matches
}

func (r *Resolver) matchExact(ref types.ExternalRef, pool []Candidate) (string, bool) {
	want := normalizeName(ref.Name)
	var hits []string
	for _, c := range pool {
		if normalizeName(c.Name) == want {
			hits = append(hits, c.PlayerID)
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	// Duplicate names in the pool resolve to the lowest identifier so the
	// outcome never depends on pool iteration order.
	sort.Strings(hits)
	return hits[0], true
}

func (r *Resolver) matchFuzzy(ref types.ExternalRef, pool []Candidate) (string, float64, bool) {
	want := normalizeName(ref.Name)

	best, runnerUp := -1.0, -1.0
	bestID := ""
	for _, c := range pool {
		score := similarityRatio(want, normalizeName(c.Name))
		switch {
		case score > best:
			runnerUp = best
			best = score
			bestID = c.PlayerID
		case score > runnerUp:
			runnerUp = score
		}
	}

	if best <= r.cfg.Threshold {
		return "", 0, false
	}
	// Near-tied candidates mean this tier fails rather than guessing.
	if runnerUp >= 0 && best-runnerUp < r.cfg.AmbiguityGap {
		return "", 0, false
	}
	return bestID, best, true
}

func (r *Resolver) matchTeamPosition(ref types.ExternalRef, pool []Candidate) (string, bool) {
	team := r.normalizeTeam(ref.Team)
	if team == "" {
		return "", false
	}

	var hits []string
	for _, c := range pool {
		if r.normalizeTeam(c.Team) != team {
			continue
		}
		if overlapPositions(ref.Positions, c.Positions) {
			hits = append(hits, c.PlayerID)
		}
	}
	// The fallback only trusts an unambiguous survivor.
	if len(hits) != 1 {
		return "", false
	}
	return hits[0], true
}

func (r *Resolver) normalizeTeam(team string) string {
	team = strings.TrimSpace(team)
	if mapped, ok := r.cfg.TeamAliases[team]; ok {
		return mapped
	}
	return strings.ToUpper(team)
}

func overlapPositions(a, b []string) bool {
	for _, pa := range a {
		for _, pb := range b {
			if strings.EqualFold(strings.TrimSpace(pa), strings.TrimSpace(pb)) {
				return true
			}
		}
	}
	return false
}
