package port

import (
	"context"
	"time"
)

// DefaultTTL tells the cache to resolve the configured default expiry at
// call time rather than binding it once at construction.
const DefaultTTL time.Duration = 0

// Cache is a best-effort, non-authoritative accelerator. Implementations
// swallow every failure: a broken cache behaves exactly like a miss.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the
	// key was present.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeletePattern(ctx context.Context, pattern string)
}
