package port

import "context"

// Metrics is the thin probe the core emits business counters through. The
// adapter side backs it with prometheus; tests and disabled telemetry use
// the no-op implementation.
type Metrics interface {
	RecordUserOperation(ctx context.Context, operation string)
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
	RecordLoaderBatch(ctx context.Context, size int)
}
