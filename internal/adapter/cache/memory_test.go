package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"usergraph/internal/adapter/cache"
	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
	"usergraph/pkg/test/factory"
)

func TestMemoryCache_SetAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(time.Minute)

	user := factory.NewUser[domain.User](map[string]any{
		"Name":  "Cached User",
		"Email": "cached@example.com",
	})
	user.ID = 7

	c.Set(ctx, "users:id:7", &user, port.DefaultTTL)

	var got domain.User
	assert.True(t, c.Get(ctx, "users:id:7", &got))
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Cached User", got.Name)
	assert.Equal(t, "cached@example.com", got.Email)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute)

	var got domain.User
	assert.False(t, c.Get(context.Background(), "users:id:404", &got))
}

func TestMemoryCache_DefaultTTLResolvedPerCall(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(20 * time.Millisecond)

	c.Set(ctx, "users:id:1", &domain.User{ID: 1}, port.DefaultTTL)

	var got domain.User
	assert.True(t, c.Get(ctx, "users:id:1", &got))

	time.Sleep(40 * time.Millisecond)
	assert.False(t, c.Get(ctx, "users:id:1", &got))
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(time.Minute)

	c.Set(ctx, "users:id:1", &domain.User{ID: 1}, port.DefaultTTL)
	c.Set(ctx, "users:id:2", &domain.User{ID: 2}, port.DefaultTTL)
	c.Set(ctx, "sessions:9", &domain.User{ID: 9}, port.DefaultTTL)

	c.DeletePattern(ctx, "users:*")

	var got domain.User
	assert.False(t, c.Get(ctx, "users:id:1", &got))
	assert.False(t, c.Get(ctx, "users:id:2", &got))
	assert.True(t, c.Get(ctx, "sessions:9", &got))
}
