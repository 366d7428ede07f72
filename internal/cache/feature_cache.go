package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/moabank/ai-risk-go/internal/models"
)

// featureCacheEntry wraps a cached feature vector with metadata.
type featureCacheEntry struct {
	Features *models.FeatureVector `json:"features"`
	CachedAt time.Time             `json:"cached_at"`
}

// FeatureCacheStats tracks cache performance counters.
type FeatureCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
	mu     sync.Mutex
}

// FeatureCache stores the latest computed feature vector per user in Redis
// so simulation requests can rescore without rebuilding from raw records.
type FeatureCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *FeatureCacheStats
	prefix string
}

// NewFeatureCache creates a Redis-backed feature snapshot cache.
func NewFeatureCache(redisClient *redis.Client, ttl time.Duration) *FeatureCache {
	return &FeatureCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &FeatureCacheStats{},
		prefix: "feature_snapshot:",
	}
}

func (c *FeatureCache) key(userID int64) string {
	return fmt.Sprintf("%s%d", c.prefix, userID)
}

// Get retrieves the cached feature vector for a user, if present.
func (c *FeatureCache) Get(ctx context.Context, userID int64) (*models.FeatureVector, bool) {
	data, err := c.redis.Get(ctx, c.key(userID)).Result()
	if err == redis.Nil {
		c.miss()
		return nil, false
	}
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error reading feature snapshot")
		c.miss()
		return nil, false
	}

	var entry featureCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil || entry.Features == nil {
		logrus.WithField("user_id", userID).Warn("Discarding undecodable feature snapshot")
		c.miss()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
	return entry.Features, true
}

// Set stores a feature vector for a user with the configured TTL.
func (c *FeatureCache) Set(ctx context.Context, userID int64, features *models.FeatureVector) {
	entry := featureCacheEntry{Features: features, CachedAt: time.Now()}
	data, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Error serializing feature snapshot")
		return
	}
	if err := c.redis.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error writing feature snapshot")
		return
	}
	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// Invalidate drops the cached snapshot for a user.
func (c *FeatureCache) Invalidate(ctx context.Context, userID int64) {
	if err := c.redis.Del(ctx, c.key(userID)).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Redis error invalidating feature snapshot")
	}
}

// Stats returns a copy of the cache counters.
func (c *FeatureCache) Stats() FeatureCacheStats {
	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()
	return FeatureCacheStats{Hits: c.stats.Hits, Misses: c.stats.Misses, Sets: c.stats.Sets}
}

func (c *FeatureCache) miss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
