package port

import (
	"context"

	"usergraph/internal/core/domain"
)

// UserBatchFetcher is the slice of the repository the batch loader needs.
type UserBatchFetcher interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

// UserRepository is the single point of truth for reads and writes against
// the users table. Mutating operations stage changes on the transaction
// carried by ctx; committing is the caller's responsibility.
type UserRepository interface {
	UserBatchFetcher

	GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context, skip, limit int) ([]domain.User, error)

	// Create returns domain.ErrDuplicateEmail when a live row already
	// holds the email.
	Create(ctx context.Context, name, email string) (*domain.User, error)

	// Update applies the non-nil patch fields. Returns (nil, nil) when the
	// id has no live row; domain.ErrDuplicateEmail when an email change
	// collides with another live row.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// SetPassword stores an already-hashed password on a live row.
	SetPassword(ctx context.Context, id int64, hashed string) (*domain.User, error)

	// SoftDelete is idempotent: it reports true as long as the row exists,
	// whether or not it was already deleted.
	SoftDelete(ctx context.Context, id int64) (bool, error)

	// HardDelete removes the row physically, bypassing the soft-delete
	// filter. Reports false when the id is absent entirely.
	HardDelete(ctx context.Context, id int64) (bool, error)
}

type CreateUserInput struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"omitempty,min=8,max=72"`
}

// UserService validates semantic constraints, owns the transaction
// boundary and maps persistence failures to domain error kinds.
type UserService interface {
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	HardDeleteUser(ctx context.Context, id int64) (bool, error)
}
