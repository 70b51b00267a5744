package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// leagueFile is the JSON fixture layout the demo driver loads.
type leagueFile struct {
	Players    []PlayerRecord      `json:"players"`
	Rosters    map[string][]string `json:"rosters"`
	Categories *types.CategorySet  `json:"categories,omitempty"`
}

// LoadLeagueFile reads a league fixture into a MemoryStore. When the file
// carries no category set the supplied fallback applies.
func LoadLeagueFile(path string, fallback types.CategorySet) (*MemoryStore, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read league file: %w", err)
	}

	var file leagueFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("failed to parse league file %s: %w", path, err)
	}

	categories := fallback
	if file.Categories != nil && file.Categories.Len() > 0 {
		categories = *file.Categories
	}

	return NewMemoryStore(file.Players, file.Rosters, categories), nil
}
