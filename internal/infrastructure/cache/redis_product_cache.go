package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const defaultProductKeyPrefix = "catalog:product:"

// RedisProductCache is a Redis-backed read-through cache for product
// lookups on the sale screen. Cache failures are soft: a Redis error
// degrades to a miss and the lookup falls through to the database.
type RedisProductCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisProductCache creates a product cache on an existing Redis client
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{
		client:    client,
		keyPrefix: defaultProductKeyPrefix,
		ttl:       ttl,
		logger:    logger,
	}
}

// Get returns the cached product for a lookup key, if present
func (c *RedisProductCache) Get(ctx context.Context, key string) (*catalog.Product, bool) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &product, true
}

// Set stores a product under a lookup key with the configured TTL
func (c *RedisProductCache) Set(ctx context.Context, key string, product *catalog.Product) {
	if product == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("product cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops cache entries after a catalog update
func (c *RedisProductCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.keyPrefix + key
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
