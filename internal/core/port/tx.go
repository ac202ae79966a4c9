package port

import "context"

// Transactor scopes fn to one transaction. The transaction is carried on
// the context passed to fn; repository calls made with that context stage
// their changes on it. Commit happens iff fn returns nil, rollback
// otherwise, and the underlying connection is released on every exit path.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
