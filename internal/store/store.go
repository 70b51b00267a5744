// Package store defines the engine's external collaborators: the player
// store serving raw per-season statistics and the roster provider serving
// fantasy-team membership and league scoring configuration. The engine
// core never performs I/O itself; implementations here back the demo
// driver and tests.
package store

import (
	"context"
	"fmt"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// PlayerRecord is one internal player known to the store, with raw season
// stats ordered newest-first.
type PlayerRecord struct {
	PlayerID  string                 `json:"player_id"`
	Name      string                 `json:"name"`
	Team      string                 `json:"team"`
	Positions []string               `json:"positions"`
	Seasons   []types.RawSeasonStats `json:"seasons"`
}

// PlayerStore serves raw per-season per-category statistics.
type PlayerStore interface {
	// SeasonStats returns a player's raw seasons newest-first. Unknown
	// players return an error; players with zero seasons return an empty
	// slice, which the aggregator rejects as insufficient data.
	SeasonStats(ctx context.Context, playerID string) ([]types.RawSeasonStats, error)
	// Players returns every player record, for candidate pools and
	// free-agent lists.
	Players(ctx context.Context) ([]PlayerRecord, error)
}

// RosterProvider serves fantasy-roster state and league configuration.
type RosterProvider interface {
	Roster(ctx context.Context, teamID string) ([]string, error)
	Categories(ctx context.Context) (types.CategorySet, error)
}

// MemoryStore is a PlayerStore and RosterProvider over in-memory data.
type MemoryStore struct {
	players    map[string]PlayerRecord
	order      []string
	rosters    map[string][]string
	categories types.CategorySet
}

func NewMemoryStore(records []PlayerRecord, rosters map[string][]string, categories types.CategorySet) *MemoryStore {
	s := &MemoryStore{
		players:    make(map[string]PlayerRecord, len(records)),
		rosters:    rosters,
		categories: categories,
	}
	for _, rec := range records {
		if _, ok := s.players[rec.PlayerID]; !ok {
			s.order = append(s.order, rec.PlayerID)
		}
		s.players[rec.PlayerID] = rec
	}
	return s
}

func (s *MemoryStore) SeasonStats(_ context.Context, playerID string) ([]types.RawSeasonStats, error) {
	rec, ok := s.players[playerID]
	if !ok {
		return nil, fmt.Errorf("unknown player %q", playerID)
	}
	return rec.Seasons, nil
}

func (s *MemoryStore) Players(_ context.Context) ([]PlayerRecord, error) {
	out := make([]PlayerRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out, nil
}

func (s *MemoryStore) Roster(_ context.Context, teamID string) ([]string, error) {
	roster, ok := s.rosters[teamID]
	if !ok {
		return nil, fmt.Errorf("unknown team %q", teamID)
	}
	return roster, nil
}

func (s *MemoryStore) Categories(_ context.Context) (types.CategorySet, error) {
	return s.categories, nil
}
