// Package simulator runs stochastic head-to-head matchup simulations.
// For each trial and each category it draws a realized value per side
// from a normal distribution centered on that side's weighted scalar,
// compares the sides direction-aware, and reduces the trials into
// win/loss/tie probabilities per category and overall.
package simulator

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// DefaultTrials is the trial count callers get when they do not override it.
const DefaultTrials = 10000

// sequentialThreshold is the trial count below which the worker pool is
// not worth spinning up.
const sequentialThreshold = 2000

// Simulator is a pure trial-based matchup engine. It holds configuration
// only and is safe for concurrent use.
type Simulator struct {
	workers int
}

func New(workers int) *Simulator {
	if workers < 1 {
		workers = 1
	}
	return &Simulator{workers: workers}
}

type tally struct {
	winA, winB, tie    []int64
	overallA, overallB int64
	overallTie         int64
}

func newTally(categories int) *tally {
	return &tally{
		winA: make([]int64, categories),
		winB: make([]int64, categories),
		tie:  make([]int64, categories),
	}
}

func (t *tally) add(other *tally) {
	for i := range t.winA {
		t.winA[i] += other.winA[i]
		t.winB[i] += other.winB[i]
		t.tie[i] += other.tie[i]
	}
	t.overallA += other.overallA
	t.overallB += other.overallB
	t.overallTie += other.overallTie
}

// Simulate runs trials independent realizations of a matchup between two
// aggregated team profiles and returns the outcome distribution. Results
// are bit-identical for a fixed seed regardless of worker count.
func (s *Simulator) Simulate(profileA, profileB *types.PlayerProfile, categories types.CategorySet, trials int, seed int64) (*types.MatchupResult, error) {
	if trials < 1 {
		return nil, &types.InvalidParameterError{Param: "trials", Reason: "must be a positive integer"}
	}
	if categories.Len() == 0 {
		return nil, &types.InvalidParameterError{Param: "categories", Reason: "category set must not be empty"}
	}

	keyA := profileKey(profileA.PlayerID)
	keyB := profileKey(profileB.PlayerID)

	total := newTally(categories.Len())
	workers := s.workers
	if trials < sequentialThreshold {
		workers = 1
	}

	if workers == 1 {
		s.runTrials(profileA, profileB, categories, 0, trials, seed, keyA, keyB, total)
	} else {
		var wg sync.WaitGroup
		partials := make([]*tally, workers)
		chunk := (trials + workers - 1) / workers
		for w := 0; w < workers; w++ {
			start := w * chunk
			end := start + chunk
			if end > trials {
				end = trials
			}
			if start >= end {
				break
			}
			partials[w] = newTally(categories.Len())
			wg.Add(1)
			go func(start, end int, part *tally) {
				defer wg.Done()
				s.runTrials(profileA, profileB, categories, start, end, seed, keyA, keyB, part)
			}(start, end, partials[w])
		}
		wg.Wait()
		for _, part := range partials {
			if part != nil {
				total.add(part)
			}
		}
	}

	result := &types.MatchupResult{
		Categories: make([]types.CategoryOutcome, categories.Len()),
		Trials:     trials,
	}
	n := float64(trials)
	for i, cat := range categories.Categories {
		result.Categories[i] = types.CategoryOutcome{
			Category: cat.Name,
			WinA:     float64(total.winA[i]) / n,
			WinB:     float64(total.winB[i]) / n,
			Tie:      float64(total.tie[i]) / n,
		}
	}
	result.OverallA = float64(total.overallA) / n
	result.OverallB = float64(total.overallB) / n
	result.OverallTie = float64(total.overallTie) / n

	return result, nil
}

func (s *Simulator) runTrials(profileA, profileB *types.PlayerProfile, categories types.CategorySet, start, end int, seed int64, keyA, keyB uint32, out *tally) {
	for trial := start; trial < end; trial++ {
		catsA, catsB := 0, 0
		for ci, cat := range categories.Categories {
			valueA := draw(profileA, cat, seed, trial, ci, keyA)
			valueB := draw(profileB, cat, seed, trial, ci, keyB)

			winnerA, winnerB := compare(valueA, valueB, cat.LowerIsBetter)
			switch {
			case winnerA:
				catsA++
				out.winA[ci]++
			case winnerB:
				catsB++
				out.winB[ci]++
			default:
				out.tie[ci]++
			}
		}
		switch {
		case catsA > catsB:
			out.overallA++
		case catsB > catsA:
			out.overallB++
		default:
			out.overallTie++
		}
	}
}

// draw realizes one side's value for a single (trial, category) cell.
func draw(profile *types.PlayerProfile, cat types.Category, seed int64, trial, catIndex int, key uint32) float64 {
	mean := profile.Values[cat.Name]
	sigma := math.Sqrt(profile.Variance[cat.Name])
	if cat.Volatility > 0 {
		sigma *= cat.Volatility
	}

	var value float64
	if sigma > 0 {
		dist := distuv.Normal{
			Mu:    mean,
			Sigma: sigma,
			Src:   rand.NewSource(deriveSeed(seed, trial, catIndex, key)),
		}
		value = dist.Rand()
	} else {
		value = mean
	}

	if cat.Percentage {
		return clamp(value, 0, 1)
	}
	if value < 0 {
		return 0
	}
	return value
}

// compare reports which side's realized value is strictly favorable.
// Exactly equal values are a tie, not rounded away.
func compare(a, b float64, lowerIsBetter bool) (winA, winB bool) {
	if a == b {
		return false, false
	}
	if lowerIsBetter {
		return a < b, b < a
	}
	return a > b, b > a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
