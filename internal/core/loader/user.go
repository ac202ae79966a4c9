package loader

import (
	"context"
	"sync"
	"time"

	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
)

const (
	defaultWait     = 2 * time.Millisecond
	defaultMaxBatch = 100
)

type Option func(*UserLoader)

// WithWait sets the flush window: every Load issued before the window
// closes joins the same repository round trip.
func WithWait(d time.Duration) Option {
	return func(l *UserLoader) { l.wait = d }
}

// WithMaxBatch caps the key set of a single round trip; reaching the cap
// dispatches the batch immediately.
func WithMaxBatch(n int) Option {
	return func(l *UserLoader) { l.maxBatch = n }
}

// UserLoader coalesces single-id lookups issued during one request into
// one GetByIDs call against the repository. Results are memoized per id
// for the lifetime of the loader, which is scoped to a single request —
// no invalidation, no cross-request reuse.
type UserLoader struct {
	fetch    port.UserBatchFetcher
	wait     time.Duration
	maxBatch int

	mu     sync.Mutex
	thunks map[int64]*userThunk
	batch  *userBatch
}

func NewUserLoader(fetch port.UserBatchFetcher, opts ...Option) *UserLoader {
	l := &UserLoader{
		fetch:    fetch,
		wait:     defaultWait,
		maxBatch: defaultMaxBatch,
		thunks:   map[int64]*userThunk{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

type userThunk struct {
	batch *userBatch
	id    int64
}

type userBatch struct {
	loader *UserLoader
	ids    []int64
	done   chan struct{}
	once   sync.Once

	results map[int64]*domain.User
	err     error
}

// Load blocks until the batch containing id has been fetched. An id
// absent from the store resolves to (nil, nil), not an error.
func (l *UserLoader) Load(ctx context.Context, id int64) (*domain.User, error) {
	return l.LoadThunk(ctx, id)()
}

// LoadThunk schedules id into the pending batch and returns a function
// that blocks until the result is available. Duplicate ids share one
// thunk, so the dispatched key set is already deduplicated.
func (l *UserLoader) LoadThunk(ctx context.Context, id int64) func() (*domain.User, error) {
	l.mu.Lock()

	t, ok := l.thunks[id]
	if !ok {
		b := l.pendingBatch(ctx)
		b.ids = append(b.ids, id)

		t = &userThunk{batch: b, id: id}
		l.thunks[id] = t

		if l.maxBatch > 0 && len(b.ids) >= l.maxBatch {
			l.batch = nil
			go b.dispatch(ctx)
		}
	}

	l.mu.Unlock()

	b := t.batch

	return func() (*domain.User, error) {
		select {
		case <-b.done:
			return b.results[t.id], b.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// pendingBatch returns the batch currently collecting keys, starting a
// new one (and its flush timer) when none is open. Caller holds l.mu.
func (l *UserLoader) pendingBatch(ctx context.Context) *userBatch {
	if l.batch != nil {
		return l.batch
	}

	b := &userBatch{
		loader: l,
		done:   make(chan struct{}),
	}
	l.batch = b

	go func() {
		time.Sleep(l.wait)
		b.dispatch(ctx)
	}()

	return b
}

func (b *userBatch) dispatch(ctx context.Context) {
	b.once.Do(func() {
		l := b.loader

		l.mu.Lock()
		if l.batch == b {
			l.batch = nil
		}
		ids := b.ids
		l.mu.Unlock()

		b.results, b.err = l.fetch.GetByIDs(ctx, ids)
		close(b.done)
	})
}

// Loaders is the per-request registry handed to resolvers through the
// request context.
type Loaders struct {
	User *UserLoader
}

func New(fetch port.UserBatchFetcher, opts ...Option) *Loaders {
	return &Loaders{
		User: NewUserLoader(fetch, opts...),
	}
}
