package adapter

import (
	"context"
	"errors"

	repository "go-huddle/internal/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT id::text, email, display_name, created_at
		FROM users
		WHERE id = $1::uuid
	`, id))
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT id::text, email, display_name, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email))
}

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
