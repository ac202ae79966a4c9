package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	database "usergraph/internal/adapter/database/postgres"
	"usergraph/internal/core/domain"
	"usergraph/internal/core/port"
)

var userColumns = []string{
	"id", "name", "email", "hashed_password", "is_active",
	"created_at", "updated_at", "is_deleted", "deleted_at",
}

const pgUniqueViolation = "23505"

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func (ur *UserRepository) q(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, ur.db)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var data domain.User

	err := row.Scan(
		&data.ID,
		&data.Name,
		&data.Email,
		&data.HashedPassword,
		&data.IsActive,
		&data.CreatedAt,
		&data.UpdatedAt,
		&data.IsDeleted,
		&data.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &data, nil
}

// classify turns driver-level constraint failures into the sentinels the
// service layer understands. The unique index on live emails is the final
// arbiter; the pre-checks in Create and Update only catch the common case.
func classify(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateEmail
		}

		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
			return domain.ErrConstraint
		}
	}

	return err
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1)

	if !includeDeleted {
		query = query.Where(sq.Eq{"is_deleted": false})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	return scanUser(ur.q(ctx).QueryRow(ctx, stmt, args...))
}

// GetByIDs feeds the batch loader: one round trip for the whole key set.
// Deleted users are absent from the result map, same as single lookups.
func (ur *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	result := make(map[int64]*domain.User, len(ids))

	if len(ids) == 0 {
		return result, nil
	}

	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": ids}).
		Where(sq.Eq{"is_deleted": false})

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.q(ctx).Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var data domain.User

		err := rows.Scan(
			&data.ID,
			&data.Name,
			&data.Email,
			&data.HashedPassword,
			&data.IsActive,
			&data.CreatedAt,
			&data.UpdatedAt,
			&data.IsDeleted,
			&data.DeletedAt,
		)

		if err != nil {
			return nil, err
		}

		result[data.ID] = &data
	}

	return result, rows.Err()
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Where(sq.Eq{"is_deleted": false}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	return scanUser(ur.q(ctx).QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) GetAll(ctx context.Context, skip, limit int) ([]domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"is_deleted": false}).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(skip)).
		Limit(uint64(limit))

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.q(ctx).Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users := []domain.User{}

	for rows.Next() {
		var data domain.User

		err := rows.Scan(
			&data.ID,
			&data.Name,
			&data.Email,
			&data.HashedPassword,
			&data.IsActive,
			&data.CreatedAt,
			&data.UpdatedAt,
			&data.IsDeleted,
			&data.DeletedAt,
		)

		if err != nil {
			return nil, err
		}

		users = append(users, data)
	}

	return users, rows.Err()
}

func (ur *UserRepository) Create(ctx context.Context, name, email string) (*domain.User, error) {
	existing, err := ur.GetByEmail(ctx, email)

	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	now := time.Now().UTC()

	query := ur.db.QueryBuilder.Insert("users").
		Columns("name", "email", "hashed_password", "is_active", "created_at", "updated_at", "is_deleted").
		Values(name, email, "", true, now, now, false).
		Suffix("RETURNING " + columnList())

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	user, err := scanUser(ur.q(ctx).QueryRow(ctx, stmt, args...))

	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("user_create_failed")
		return nil, classify(err)
	}

	return user, nil
}

func (ur *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	current, err := ur.GetByID(ctx, id, false)

	if err != nil {
		return nil, err
	}

	if current == nil {
		return nil, nil
	}

	if patch.IsEmpty() {
		return current, nil
	}

	if patch.Email != nil && *patch.Email != current.Email {
		other, err := ur.GetByEmail(ctx, *patch.Email)

		if err != nil {
			return nil, err
		}

		if other != nil {
			return nil, domain.ErrDuplicateEmail
		}
	}

	query := ur.db.QueryBuilder.Update("users").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		Suffix("RETURNING " + columnList())

	if patch.Name != nil {
		query = query.Set("name", *patch.Name)
	}

	if patch.Email != nil {
		query = query.Set("email", *patch.Email)
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	user, err := scanUser(ur.q(ctx).QueryRow(ctx, stmt, args...))

	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("user_update_failed")
		return nil, classify(err)
	}

	return user, nil
}

func (ur *UserRepository) SetPassword(ctx context.Context, id int64, hashed string) (*domain.User, error) {
	query := ur.db.QueryBuilder.Update("users").
		Set("hashed_password", hashed).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"is_deleted": false}).
		Suffix("RETURNING " + columnList())

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	return scanUser(ur.q(ctx).QueryRow(ctx, stmt, args...))
}

// SoftDelete reports true whenever the row exists, deleted already or not.
// Callers cannot distinguish a repeat delete from the first one.
func (ur *UserRepository) SoftDelete(ctx context.Context, id int64) (bool, error) {
	current, err := ur.GetByID(ctx, id, true)

	if err != nil {
		return false, err
	}

	if current == nil {
		return false, nil
	}

	if current.IsDeleted {
		return true, nil
	}

	now := time.Now().UTC()

	query := ur.db.QueryBuilder.Update("users").
		Set("is_deleted", true).
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	if _, err := ur.q(ctx).Exec(ctx, stmt, args...); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("user_soft_delete_failed")
		return false, classify(err)
	}

	return true, nil
}

func (ur *UserRepository) HardDelete(ctx context.Context, id int64) (bool, error) {
	query := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	tag, err := ur.q(ctx).Exec(ctx, stmt, args...)

	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("user_hard_delete_failed")
		return false, classify(err)
	}

	return tag.RowsAffected() > 0, nil
}

func columnList() string {
	list := userColumns[0]

	for _, col := range userColumns[1:] {
		list += ", " + col
	}

	return list
}
