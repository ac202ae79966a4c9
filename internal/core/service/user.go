package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
	"usergraph/internal/core/telemetry"
	"usergraph/internal/core/util"
)

const (
	userKeyFmt     = "users:id:%d"
	userListKeyFmt = "users:list:%d:%d"
	userKeyPattern = "users:*"
)

// UserService orchestrates repository calls inside a transaction boundary
// and translates repository-level signals into domain error kinds. Inputs
// arrive already validated for shape by the transport boundary; only
// semantic constraints (uniqueness) are re-checked here.
type UserService struct {
	repo    port.UserRepository
	tx      port.Transactor
	cache   port.Cache
	metrics port.Metrics
}

func NewUserService(repo port.UserRepository, tx port.Transactor, cache port.Cache, metrics port.Metrics) *UserService {
	if metrics == nil {
		metrics = telemetry.NewNoOpProbe()
	}

	return &UserService{
		repo:    repo,
		tx:      tx,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	key := fmt.Sprintf(userListKeyFmt, skip, limit)

	var cached []domain.User
	if s.cache.Get(ctx, key, &cached) {
		s.metrics.RecordCacheHit(ctx, key)
		return cached, nil
	}

	s.metrics.RecordCacheMiss(ctx, key)

	users, err := s.repo.GetAll(ctx, skip, limit)

	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, users, port.DefaultTTL)

	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	key := fmt.Sprintf(userKeyFmt, id)

	var cached domain.User
	if s.cache.Get(ctx, key, &cached) {
		s.metrics.RecordCacheHit(ctx, key)
		return &cached, nil
	}

	s.metrics.RecordCacheMiss(ctx, key)

	user, err := s.repo.GetByID(ctx, id, false)

	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, nil
	}

	s.cache.Set(ctx, key, user, port.DefaultTTL)

	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, input port.CreateUserInput) (*domain.User, error) {
	var created *domain.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.Create(ctx, input.Name, input.Email)

		if err != nil {
			return err
		}

		if input.Password != "" {
			hashed, err := util.HashPassword(input.Password)

			if err != nil {
				return err
			}

			user, err = s.repo.SetPassword(ctx, user.ID, hashed)

			if err != nil {
				return err
			}
		}

		created = user
		return nil
	})

	if err != nil {
		return nil, s.translate(err, "create user")
	}

	s.cache.DeletePattern(ctx, userKeyPattern)
	s.metrics.RecordUserOperation(ctx, "create")

	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var updated *domain.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.repo.Update(ctx, id, patch)

		if err != nil {
			return err
		}

		updated = user
		return nil
	})

	if err != nil {
		return nil, s.translate(err, "update user")
	}

	if updated == nil {
		return nil, nil
	}

	s.cache.DeletePattern(ctx, userKeyPattern)
	s.metrics.RecordUserOperation(ctx, "update")

	return updated, nil
}

// DeleteUser soft-deletes; the row stays present until a privileged hard
// delete. An absent id makes the transaction a no-op, nothing to roll back.
func (s *UserService) DeleteUser(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.SoftDelete(ctx, id)

		if err != nil {
			return err
		}

		deleted = ok
		return nil
	})

	if err != nil {
		return false, err
	}

	if deleted {
		s.cache.DeletePattern(ctx, userKeyPattern)
		s.metrics.RecordUserOperation(ctx, "soft_delete")
	}

	return deleted, nil
}

func (s *UserService) HardDeleteUser(ctx context.Context, id int64) (bool, error) {
	var removed bool

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.HardDelete(ctx, id)

		if err != nil {
			return err
		}

		removed = ok
		return nil
	})

	if err != nil {
		return false, err
	}

	if removed {
		s.cache.DeletePattern(ctx, userKeyPattern)
		s.metrics.RecordUserOperation(ctx, "hard_delete")
	}

	return removed, nil
}

// translate maps repository signals to the error kinds that may cross the
// service boundary. ErrDuplicateEmail never leaves as itself; constraint
// failures not classified further collapse into a field-less validation
// error, everything else stays a database failure for the boundary to
// report generically.
func (s *UserService) translate(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.NewValidationError("email", "email already registered")
	case errors.Is(err, domain.ErrConstraint):
		log.Error().Err(err).Str("op", op).Msg("database_constraint_error")
		return domain.NewValidationError("", "database error")
	default:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}

		log.Error().Err(err).Str("op", op).Msg("database_error")
		return domain.NewDatabaseError(op, err)
	}
}
