package postgres

import (
	"context"
	"time"

	"github.com/and161185/fittrack/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Store bundles all repositories over one pool and runs them inside transactions on demand.
type Store struct {
	*UserRepo
	*WorkoutRepo
	*GoalRepo
	*ExerciseRepo

	db *DB
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.Transactor = (*Store)(nil)
)

// NewStore constructs a Store backed by db.
func NewStore(db *DB) *Store { return bind(db, db.Pool) }

func bind(db *DB, q querier) *Store {
	return &Store{
		UserRepo:     &UserRepo{q: q},
		WorkoutRepo:  &WorkoutRepo{q: q, now: time.Now},
		GoalRepo:     &GoalRepo{q: q},
		ExerciseRepo: &ExerciseRepo{q: q},
		db:           db,
	}
}

// WithinTx runs fn against a Store bound to a single transaction.
// The transaction commits if fn returns nil. An error or a panic in fn rolls it back.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(bind(s.db, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
