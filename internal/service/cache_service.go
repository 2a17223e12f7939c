package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wartakota/newsroom-api/pkg/config"
)

const publishedCachePrefix = "news:published:"

// NewsCache caches the public published-article listing in Redis. All
// operations degrade to cache misses on failure.
type NewsCache struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
	logger  *zap.Logger
}

// NewNewsCache constructs the cache. A nil client disables caching.
func NewNewsCache(client *redis.Client, cfg config.NewsCacheConfig, logger *zap.Logger) *NewsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsCache{
		client:  client,
		ttl:     cfg.TTL,
		enabled: cfg.Enabled && client != nil,
		logger:  logger,
	}
}

// Get loads a cached listing into dest, reporting whether it was found.
func (c *NewsCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled {
		return false
	}
	raw, err := c.client.Get(ctx, publishedCachePrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("news cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("news cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores a listing under the key.
func (c *NewsCache) Set(ctx context.Context, key string, value interface{}) {
	if !c.enabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("news cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, publishedCachePrefix+key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("news cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached published listing. Called whenever publish
// state changes.
func (c *NewsCache) Invalidate(ctx context.Context) {
	if !c.enabled {
		return
	}
	iter := c.client.Scan(ctx, 0, publishedCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("news cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("news cache invalidation failed", zap.Error(err))
	}
}
