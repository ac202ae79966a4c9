package telemetry

import (
	"context"

	"usergraph/internal/core/port"
)

// NoOpProbe drops every measurement. It stands in wherever telemetry is
// absent or disabled.
type NoOpProbe struct{}

func NewNoOpProbe() *NoOpProbe {
	return &NoOpProbe{}
}

var _ port.Metrics = (*NoOpProbe)(nil)

func (NoOpProbe) RecordUserOperation(ctx context.Context, operation string) {}

func (NoOpProbe) RecordCacheHit(ctx context.Context, key string) {}

func (NoOpProbe) RecordCacheMiss(ctx context.Context, key string) {}

func (NoOpProbe) RecordLoaderBatch(ctx context.Context, size int) {}
