package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/hoopsim/fantasy-engine/internal/types"
)

// Config carries every tunable of the engine. Season weights, the category
// direction table, and the resolver thresholds are data here, never logic
// in the core packages, so leagues with different scoring rules reuse the
// same engine.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Aggregation
	SeasonWeightsRaw string  `mapstructure:"SEASON_WEIGHTS"`
	VarianceFloor    float64 `mapstructure:"VARIANCE_FLOOR"`

	// Categories
	CategoriesRaw         string `mapstructure:"CATEGORIES"`
	LowerIsBetterRaw      string `mapstructure:"LOWER_IS_BETTER_CATEGORIES"`
	PercentageRaw         string `mapstructure:"PERCENTAGE_CATEGORIES"`
	CategoryVolatilityRaw string `mapstructure:"CATEGORY_VOLATILITY"`

	// Resolver
	FuzzyMatchThreshold float64 `mapstructure:"FUZZY_MATCH_THRESHOLD"`
	FuzzyAmbiguityGap   float64 `mapstructure:"FUZZY_AMBIGUITY_GAP"`
	TeamAliasesRaw      string  `mapstructure:"TEAM_ALIASES"`

	// Simulation
	DefaultTrials     int `mapstructure:"DEFAULT_TRIALS"`
	SimulationWorkers int `mapstructure:"SIMULATION_WORKERS"`

	// Profile cache
	RedisURL        string `mapstructure:"REDIS_URL"`
	ProfileCacheTTL int    `mapstructure:"PROFILE_CACHE_TTL"`

	// Parsed fields, populated by LoadConfig after unmarshalling.
	SeasonWeights      []float64          `mapstructure:"-"`
	Categories         types.CategorySet  `mapstructure:"-"`
	TeamAliases        map[string]string  `mapstructure:"-"`
	CategoryVolatility map[string]float64 `mapstructure:"-"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "")

	// 60/30/10 across the three most recent seasons
	viper.SetDefault("SEASON_WEIGHTS", "0.6,0.3,0.1")
	viper.SetDefault("VARIANCE_FLOOR", 0.25)

	// Standard 9-category head-to-head league
	viper.SetDefault("CATEGORIES", "points,rebounds,assists,steals,blocks,three_pointers_made,fg_percentage,ft_percentage,turnovers")
	viper.SetDefault("LOWER_IS_BETTER_CATEGORIES", "turnovers")
	viper.SetDefault("PERCENTAGE_CATEGORIES", "fg_percentage,ft_percentage")
	viper.SetDefault("CATEGORY_VOLATILITY", "points:0.25,rebounds:0.30,assists:0.35,steals:0.50,blocks:0.60,three_pointers_made:0.40,fg_percentage:0.15,ft_percentage:0.10,turnovers:0.30")

	viper.SetDefault("FUZZY_MATCH_THRESHOLD", 0.80)
	viper.SetDefault("FUZZY_AMBIGUITY_GAP", 0.05)
	viper.SetDefault("TEAM_ALIASES", "")

	viper.SetDefault("DEFAULT_TRIALS", 10000)
	viper.SetDefault("SIMULATION_WORKERS", 4)

	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("PROFILE_CACHE_TTL", 300)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.parse(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) parse() error {
	weights, err := parseWeights(c.SeasonWeightsRaw)
	if err != nil {
		return fmt.Errorf("SEASON_WEIGHTS: %w", err)
	}
	c.SeasonWeights = weights

	c.CategoryVolatility, err = parsePairsFloat(c.CategoryVolatilityRaw)
	if err != nil {
		return fmt.Errorf("CATEGORY_VOLATILITY: %w", err)
	}

	lower := toSet(splitList(c.LowerIsBetterRaw))
	pct := toSet(splitList(c.PercentageRaw))

	var cats []types.Category
	for _, name := range splitList(c.CategoriesRaw) {
		cats = append(cats, types.Category{
			Name:          name,
			LowerIsBetter: lower[name],
			Percentage:    pct[name],
			Volatility:    c.CategoryVolatility[name],
		})
	}
	c.Categories = types.CategorySet{Categories: cats}

	c.TeamAliases = defaultTeamAliases()
	extra, err := parsePairs(c.TeamAliasesRaw)
	if err != nil {
		return fmt.Errorf("TEAM_ALIASES: %w", err)
	}
	for k, v := range extra {
		c.TeamAliases[k] = v
	}

	return nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.SeasonWeights) == 0 {
		return fmt.Errorf("at least one season weight is required")
	}
	var sum float64
	for _, w := range c.SeasonWeights {
		if w < 0 {
			return fmt.Errorf("season weights must be non-negative, got %v", w)
		}
		sum += w
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		return fmt.Errorf("season weights must sum to 1.0, got %v", sum)
	}
	if c.Categories.Len() == 0 {
		return fmt.Errorf("at least one scoring category is required")
	}
	if c.FuzzyMatchThreshold <= 0 || c.FuzzyMatchThreshold > 1 {
		return fmt.Errorf("FUZZY_MATCH_THRESHOLD must be in (0,1], got %v", c.FuzzyMatchThreshold)
	}
	if c.FuzzyAmbiguityGap < 0 {
		return fmt.Errorf("FUZZY_AMBIGUITY_GAP must be non-negative, got %v", c.FuzzyAmbiguityGap)
	}
	if c.VarianceFloor <= 0 {
		return fmt.Errorf("VARIANCE_FLOOR must be positive, got %v", c.VarianceFloor)
	}
	if c.DefaultTrials < 1 {
		return fmt.Errorf("DEFAULT_TRIALS must be at least 1, got %d", c.DefaultTrials)
	}
	if c.SimulationWorkers < 1 {
		return fmt.Errorf("SIMULATION_WORKERS must be at least 1, got %d", c.SimulationWorkers)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func parseWeights(raw string) ([]float64, error) {
	parts := splitList(raw)
	weights := make([]float64, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("bad weight %q: %w", p, err)
		}
		weights = append(weights, w)
	}
	return weights, nil
}

func parsePairs(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range splitList(raw) {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad pair %q, want key:value", part)
		}
		out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

func parsePairsFloat(raw string) (map[string]float64, error) {
	pairs, err := parsePairs(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(pairs))
	for k, v := range pairs {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value for %s: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

// defaultTeamAliases maps provider team abbreviations onto the internal
// store's vocabulary. Extend via TEAM_ALIASES for other providers.
func defaultTeamAliases() map[string]string {
	return map[string]string{
		"Atl": "ATL", "Bos": "BOS", "Bkn": "BRK", "Cha": "CHO", "Chi": "CHI",
		"Cle": "CLE", "Dal": "DAL", "Den": "DEN", "Det": "DET", "GS": "GSW",
		"Hou": "HOU", "Ind": "IND", "Mem": "MEM", "Mia": "MIA", "Mil": "MIL",
		"Min": "MIN", "NO": "NOP", "NY": "NYK", "Orl": "ORL", "Phi": "PHI",
		"Phx": "PHO", "Por": "POR", "Sac": "SAC", "SA": "SAS", "Tor": "TOR",
		"Uta": "UTA", "Was": "WAS",
	}
}
