package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hoopsim/fantasy-engine/internal/cache"
	"github.com/hoopsim/fantasy-engine/internal/config"
	"github.com/hoopsim/fantasy-engine/internal/engine"
	"github.com/hoopsim/fantasy-engine/internal/store"
	"github.com/hoopsim/fantasy-engine/internal/types"
	"github.com/hoopsim/fantasy-engine/pkg/logger"
)

func main() {
	var (
		leaguePath = flag.String("league", "league.json", "path to the league fixture file")
		refsPath   = flag.String("refs", "", "optional path to external roster references to reconcile")
		teamA      = flag.String("team-a", "", "team ID for side A of the matchup")
		teamB      = flag.String("team-b", "", "team ID for side B of the matchup")
		trials     = flag.Int("trials", 0, "simulation trials (0 uses the configured default)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "simulation seed")
		topN       = flag.Int("top", 10, "number of roster-move recommendations")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	runLog := log.WithField("run_id", uuid.New().String())

	leagueStore, err := store.LoadLeagueFile(*leaguePath, cfg.Categories)
	if err != nil {
		runLog.WithError(err).Fatal("Failed to load league file")
	}

	var profiles cache.ProfileCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, time.Duration(cfg.ProfileCacheTTL)*time.Second)
		if err != nil {
			runLog.WithError(err).Fatal("Failed to connect profile cache")
		}
		defer redisCache.Close()
		profiles = redisCache
	} else {
		profiles = cache.NewMemoryCache(time.Duration(cfg.ProfileCacheTTL) * time.Second)
	}

	svc := engine.NewService(cfg, leagueStore, leagueStore, profiles, runLog)
	ctx := context.Background()

	if *refsPath != "" {
		reconcile(ctx, svc, runLog, *refsPath)
	}

	if *teamA != "" && *teamB != "" {
		result, err := svc.SimulateMatchup(ctx, *teamA, *teamB, *trials, *seed)
		if err != nil {
			runLog.WithError(err).Fatal("Matchup simulation failed")
		}
		runLog.WithFields(logrus.Fields{
			"team_a":      *teamA,
			"team_b":      *teamB,
			"trials":      result.Trials,
			"win_a":       result.OverallA,
			"win_b":       result.OverallB,
			"overall_tie": result.OverallTie,
		}).Info("Matchup simulated")
		for _, cat := range result.Categories {
			runLog.WithFields(logrus.Fields{
				"category": cat.Category,
				"win_a":    cat.WinA,
				"win_b":    cat.WinB,
				"tie":      cat.Tie,
			}).Info("Category outcome")
		}
	}

	if *teamA != "" {
		entries, skipped, err := svc.RecommendMoves(ctx, *teamA, *topN)
		if err != nil {
			runLog.WithError(err).Fatal("Recommendation failed")
		}
		if len(skipped) > 0 {
			runLog.WithField("skipped", skipped).Warn("Candidates excluded for insufficient data")
		}
		for rank, entry := range entries {
			runLog.WithFields(logrus.Fields{
				"rank":       rank + 1,
				"player_id":  entry.PlayerID,
				"score":      entry.Score,
				"categories": entry.DrivingCategories,
			}).Info("Recommended move")
		}
	}
}

func reconcile(ctx context.Context, svc *engine.Service, log *logrus.Entry, path string) {
	body, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Fatal("Failed to read external references")
	}
	var refs []types.ExternalRef
	if err := json.Unmarshal(body, &refs); err != nil {
		log.WithError(err).Fatal("Failed to parse external references")
	}

	matches, report, err := svc.ResolveRoster(ctx, refs)
	if err != nil {
		log.WithError(err).Fatal("Roster reconciliation failed")
	}
	for _, m := range matches {
		log.WithFields(logrus.Fields{
			"name":       m.Ref.Name,
			"player_id":  m.PlayerID,
			"method":     m.Method,
			"confidence": m.Confidence,
		}).Info("Reference resolved")
	}
	log.WithFields(logrus.Fields{
		"matched":    report.Matched,
		"total":      report.Total,
		"match_rate": report.MatchRate,
	}).Info("Match report")
}
