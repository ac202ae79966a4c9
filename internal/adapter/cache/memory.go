package cache

import (
	"context"
	"encoding/json"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"usergraph/internal/core/port"
)

// MemoryCache backs tests and single-process deployments. Values go through
// the same JSON round trip as the redis implementation, so both behave
// identically with respect to what survives serialization.
type MemoryCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		store:      gocache.New(defaultTTL, 10*time.Minute),
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest any) bool {
	raw, found := c.store.Get(key)

	if !found {
		return false
	}

	payload, ok := raw.([]byte)

	if !ok {
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_decode_failed")
		return false
	}

	return true
}

func (c *MemoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= port.DefaultTTL {
		ttl = c.defaultTTL
	}

	payload, err := json.Marshal(value)

	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache_encode_failed")
		return
	}

	c.store.Set(key, payload, ttl)
}

func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.store.Delete(key)
}

// DeletePattern matches keys with shell-style globs, mirroring the patterns
// redis understands for the "users:*" invalidation this service issues.
func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) {
	for key := range c.store.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			c.store.Delete(key)
		}
	}
}
