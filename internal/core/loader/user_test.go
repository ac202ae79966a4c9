package loader_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"usergraph/internal/core/domain"
	"usergraph/internal/core/loader"
)

// countingFetcher records every GetByIDs call so tests can assert how the
// loader batched its keys.
type countingFetcher struct {
	mu    sync.Mutex
	calls [][]int64
	users map[int64]*domain.User
}

func newCountingFetcher(ids ...int64) *countingFetcher {
	users := map[int64]*domain.User{}

	for _, id := range ids {
		users[id] = &domain.User{ID: id, Name: "User", Email: "user@example.com", IsActive: true}
	}

	return &countingFetcher{users: users}
}

func (f *countingFetcher) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]int64{}, ids...))

	result := map[int64]*domain.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			result[id] = u
		}
	}

	return result, nil
}

func (f *countingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *countingFetcher) keysOfCall(i int) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i]
}

func TestLoader_ConcurrentLoadsShareOneBatch(t *testing.T) {
	fetcher := newCountingFetcher(1, 2, 3)
	l := loader.NewUserLoader(fetcher, loader.WithWait(10*time.Millisecond))

	// Duplicates on purpose: 1 appears three times, 2 twice.
	requested := []int64{1, 2, 3, 1, 2, 1}
	results := make([]*domain.User, len(requested))

	var wg sync.WaitGroup
	for i, id := range requested {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			u, err := l.Load(context.Background(), id)
			assert.NoError(t, err)
			results[i] = u
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount())
	assert.ElementsMatch(t, []int64{1, 2, 3}, fetcher.keysOfCall(0))

	// Every caller got the user matching its own id.
	for i, id := range requested {
		assert.NotNil(t, results[i])
		assert.Equal(t, id, results[i].ID)
	}
}

func TestLoader_MissingIDResolvesToNil(t *testing.T) {
	fetcher := newCountingFetcher(1)
	l := loader.NewUserLoader(fetcher, loader.WithWait(time.Millisecond))

	u, err := l.Load(context.Background(), 42)

	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestLoader_MemoizesAcrossFlushes(t *testing.T) {
	fetcher := newCountingFetcher(1, 2)
	l := loader.NewUserLoader(fetcher, loader.WithWait(time.Millisecond))

	first, err := l.Load(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())

	// Same id after the batch flushed: served from the request cache.
	again, err := l.Load(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.callCount())
	assert.Same(t, first, again)

	// A new id opens a new batch.
	_, err = l.Load(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestLoader_MaxBatchDispatchesEarly(t *testing.T) {
	fetcher := newCountingFetcher(1, 2, 3, 4)
	l := loader.NewUserLoader(fetcher, loader.WithWait(time.Second), loader.WithMaxBatch(2))

	var wg sync.WaitGroup
	for _, id := range []int64{1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			u, err := l.Load(context.Background(), id)
			assert.NoError(t, err)
			assert.NotNil(t, u)
		}(id)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	// The one second flush window never elapses; the cap forces dispatch.
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("batch was not dispatched when max batch size was reached")
	}

	assert.Equal(t, 1, fetcher.callCount())
	assert.ElementsMatch(t, []int64{1, 2}, fetcher.keysOfCall(0))
}

func TestLoader_CancelledContextUnblocksCaller(t *testing.T) {
	fetcher := newCountingFetcher(1)
	l := loader.NewUserLoader(fetcher, loader.WithWait(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	thunk := l.LoadThunk(ctx, 1)
	cancel()

	_, err := thunk()
	assert.ErrorIs(t, err, context.Canceled)
}
