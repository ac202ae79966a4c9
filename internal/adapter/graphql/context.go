package graphql

import (
	"context"

	"usergraph/internal/core/loader"
)

type loadersKey struct{}

// WithLoaders attaches a fresh, request-scoped loader set to ctx. Sharing
// loaders across requests would leak one request's memoized users into the
// next, so the HTTP layer creates a new set per request.
func WithLoaders(ctx context.Context, l *loader.Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

func LoadersFrom(ctx context.Context) *loader.Loaders {
	l, _ := ctx.Value(loadersKey{}).(*loader.Loaders)
	return l
}
