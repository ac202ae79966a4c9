package http

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	cacheadapter "usergraph/internal/adapter/cache"
	"usergraph/internal/adapter/database/postgres"
	pgrepository "usergraph/internal/adapter/database/postgres/repository"
	"usergraph/internal/adapter/database/sqlite"
	sqliterepository "usergraph/internal/adapter/database/sqlite/repository"
	gql "usergraph/internal/adapter/graphql"
	"usergraph/internal/adapter/http/handler"
	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
	"usergraph/internal/core/service"
	coretelemetry "usergraph/internal/core/telemetry"
	"usergraph/pkg/auth"
	"usergraph/pkg/config"
	"usergraph/pkg/tracing"
)

// Container wires the object graph explicitly: repository, transactor,
// cache, service, schema, handlers. No globals, no lazy singletons.
type Container struct {
	Repo    port.UserRepository
	Tx      port.Transactor
	Cache   port.Cache
	Service port.UserService
	Schema  graphql.Schema

	GraphQLHandler *handler.GraphQLHandler
	AdminHandler   *handler.AdminHandler
	JWT            *auth.JWT

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config, metrics port.Metrics) (*Container, error) {
	c := &Container{}

	var repo port.UserRepository
	var tx port.Transactor

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(cfg.Database.Path, cfg.Database.MigrationsPath)

		if err != nil {
			return nil, err
		}

		repo = sqliterepository.NewUserRepository(db)
		tx = sqlite.NewTxManager(db)
		c.closers = append(c.closers, func() { db.Close() })

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database.URL, cfg.Database.MigrationsPath)

		if err != nil {
			return nil, err
		}

		repo = pgrepository.NewUserRepository(db)
		tx = postgres.NewTxManager(db)
		c.closers = append(c.closers, func() { db.Close() })

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	var cache port.Cache = cacheadapter.NewNoopCache()

	if cfg.Cache.Enabled {
		redisCache, err := cacheadapter.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)

		if err != nil {
			// Best effort: a cache that cannot connect degrades to no
			// caching, it does not stop the service.
			log.Warn().Err(err).Msg("cache_unavailable")
		} else {
			cache = redisCache
			c.closers = append(c.closers, func() { redisCache.Close() })
		}
	}

	svc := service.NewUserService(repo, tx, cache, metrics)

	schema, err := gql.NewSchema(svc)

	if err != nil {
		return nil, err
	}

	if metrics == nil {
		metrics = coretelemetry.NewNoOpProbe()
	}

	fetch := &tracedFetcher{inner: repo, metrics: metrics}

	c.Repo = repo
	c.Tx = tx
	c.Cache = cache
	c.Service = svc
	c.Schema = schema
	c.GraphQLHandler = handler.NewGraphQLHandler(schema, fetch, cfg.Loader.Wait, cfg.Loader.MaxBatch)
	c.AdminHandler = handler.NewAdminHandler(svc)
	c.JWT = auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return c, nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// tracedFetcher wraps the repository slice the loaders use, putting a span
// and a batch-size measurement around every batched fetch.
type tracedFetcher struct {
	inner   port.UserBatchFetcher
	metrics port.Metrics
}

func (f *tracedFetcher) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	f.metrics.RecordLoaderBatch(ctx, len(ids))

	var result map[int64]*domain.User

	err := tracing.SpanWrapper(ctx, "loader.users.batch", []attribute.KeyValue{
		attribute.Int("batch.size", len(ids)),
	}, func(ctx context.Context) error {
		var err error
		result, err = f.inner.GetByIDs(ctx, ids)
		return err
	})

	return result, err
}
