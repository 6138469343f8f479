package postgres

import (
	"context"
	"errors"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/model"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ q querier }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{q: db.Pool} }

const userCols = `id, username, password_hash, is_guest, created_at`

// CreateUser inserts a new identity row.
func (r *UserRepo) CreateUser(ctx context.Context, u model.Identity) (model.Identity, error) {
	const q = `
INSERT INTO users (id, username, password_hash, is_guest)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	err := r.q.QueryRow(ctx, q, u.ID, u.Username, textOrNil(u.PasswordHash), u.IsGuest()).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return model.Identity{}, errs.ErrAlreadyExists
	}
	if err != nil {
		return model.Identity{}, err
	}
	return u, nil
}

// GetUser selects an identity by id.
func (r *UserRepo) GetUser(ctx context.Context, id string) (model.Identity, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id=$1`
	return scanUser(r.q.QueryRow(ctx, q, id))
}

// GetUserByUsername selects a registered identity by username.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (model.Identity, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE username=$1 AND NOT is_guest`
	return scanUser(r.q.QueryRow(ctx, q, username))
}

func scanUser(row pgx.Row) (model.Identity, error) {
	var (
		u     model.Identity
		hash  *string
		guest bool
	)
	if err := row.Scan(&u.ID, &u.Username, &hash, &guest, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Identity{}, errs.ErrNotFound
		}
		return model.Identity{}, err
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	u.Kind = model.KindRegistered
	if guest {
		u.Kind = model.KindGuest
	}
	return u, nil
}
