package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"usergraph/internal/core/port"
)

// RedisCache is a best-effort layer: every failure is swallowed after
// logging, a broken cache must never fail a request.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache connects and pings. The default TTL applies to every Set
// called with port.DefaultTTL; it is resolved per call, not captured at
// construction of the caller.
func NewRedisCache(ctx context.Context, url string, defaultTTL time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisCache{
		client:     client,
		defaultTTL: defaultTTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()

	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache_get_failed")
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_decode_failed")
		return false
	}

	return true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= port.DefaultTTL {
		ttl = c.defaultTTL
	}

	payload, err := json.Marshal(value)

	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_encode_failed")
		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_set_failed")
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_delete_failed")
	}
}

// DeletePattern walks the keyspace with SCAN rather than KEYS so a large
// keyspace does not block the server.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("cache_delete_failed")
		}
	}

	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("cache_scan_failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
