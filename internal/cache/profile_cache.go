// Package cache provides the per-(player, weight-configuration) profile
// cache. Aggregation is cheap but roster and free-agent views re-request
// the same profiles constantly, so the engine keeps them behind a small
// TTL cache: in-memory by default, Redis-backed when deployments share one.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hoopsim/fantasy-engine/internal/types"
	"github.com/hoopsim/fantasy-engine/pkg/logger"
)

// ProfileCache stores aggregated profiles keyed by player and weight
// configuration. A miss returns (nil, nil).
type ProfileCache interface {
	Get(ctx context.Context, key string) (*types.PlayerProfile, error)
	Set(ctx context.Context, key string, profile *types.PlayerProfile) error
}

// Key builds the cache key for a player under a weight configuration.
func Key(playerID string, weights []float64) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = fmt.Sprintf("%g", w)
	}
	return fmt.Sprintf("profile:%s:w=%s", playerID, strings.Join(parts, ","))
}

type memoryEntry struct {
	profile   *types.PlayerProfile
	expiresAt time.Time
}

// MemoryCache is a process-local TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*types.PlayerProfile, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.profile, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, profile *types.PlayerProfile) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{profile: profile, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

// RedisCache stores profiles in Redis so multiple engine instances share
// one cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Entry
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisCache{
		client: client,
		ttl:    ttl,
		log:    logger.WithComponent("profile_cache"),
	}
	cache.log.WithFields(logrus.Fields{
		"redis_url": redisURL,
		"ttl":       ttl,
	}).Info("Profile cache initialized")

	return cache, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*types.PlayerProfile, error) {
	result, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		c.log.WithError(err).WithField("key", key).Error("Failed to get profile from cache")
		return nil, err
	}

	var profile types.PlayerProfile
	if err := json.Unmarshal([]byte(result), &profile); err != nil {
		c.log.WithError(err).WithField("key", key).Error("Failed to unmarshal cached profile")
		return nil, err
	}
	return &profile, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, profile *types.PlayerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Error("Failed to set profile in cache")
		return err
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
