package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/furniq/furniq-admin/internal/shared"
)

// RepositoryPort is the persistence surface the service needs.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, user User, passwordHash string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int64) error
}

const userColumns = `id, name, email, role, status, created_at`

// Repository persists users in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, user User, passwordHash string) (User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		user.Name, user.Email, passwordHash, user.Role, user.Status,
	).Scan(&user.ID, &user.Joined)
	if err != nil {
		return User{}, mapPGError(err)
	}
	return user, nil
}

func (r *Repository) Update(ctx context.Context, user User) (User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, role = $3, status = $4 WHERE id = $5`,
		user.Name, user.Email, user.Role, user.Status, user.ID,
	)
	if err != nil {
		return User{}, mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return user, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.Joined)
	return u, err
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
