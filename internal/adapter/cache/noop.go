package cache

import (
	"context"
	"time"
)

// NoopCache is what the container wires when caching is disabled.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string, dest any) bool { return false }

func (NoopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {}

func (NoopCache) Delete(ctx context.Context, key string) {}

func (NoopCache) DeletePattern(ctx context.Context, pattern string) {}
