package postgres

import (
	"context"
	"errors"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/model"
	"github.com/jackc/pgx/v5"
)

// GoalRepo implements GoalRepository using PostgreSQL.
type GoalRepo struct{ q querier }

// NewGoalRepo constructs a goal repository.
func NewGoalRepo(db *DB) *GoalRepo { return &GoalRepo{q: db.Pool} }

const goalCols = `id, user_id, type, target, current, date`

// GetGoals returns the owner's goals in creation order.
func (r *GoalRepo) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	const q = `SELECT ` + goalCols + ` FROM goals WHERE user_id=$1 ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGoal returns a single goal by id.
func (r *GoalRepo) GetGoal(ctx context.Context, id string) (model.Goal, error) {
	const q = `SELECT ` + goalCols + ` FROM goals WHERE id=$1`
	g, err := scanGoal(r.q.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Goal{}, errs.ErrNotFound
	}
	return g, err
}

// CreateGoal inserts a goal with zero progress.
func (r *GoalRepo) CreateGoal(ctx context.Context, userID string, in model.NewGoal) (model.Goal, error) {
	const q = `
INSERT INTO goals (id, user_id, type, target, current)
VALUES ($1, $2, $3, $4, 0)
RETURNING ` + goalCols
	id, err := newID()
	if err != nil {
		return model.Goal{}, err
	}
	return scanGoal(r.q.QueryRow(ctx, q, id, userID, string(in.Type), in.Target))
}

// UpdateGoal sets the goal's progress.
func (r *GoalRepo) UpdateGoal(ctx context.Context, id string, current float64) (model.Goal, error) {
	const q = `UPDATE goals SET current=$2 WHERE id=$1 RETURNING ` + goalCols
	g, err := scanGoal(r.q.QueryRow(ctx, q, id, current))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Goal{}, errs.ErrNotFound
	}
	return g, err
}

func scanGoal(row pgx.Row) (model.Goal, error) {
	var (
		g   model.Goal
		typ string
	)
	if err := row.Scan(&g.ID, &g.UserID, &typ, &g.Target, &g.Current, &g.Date); err != nil {
		return model.Goal{}, err
	}
	g.Type = model.GoalType(typ)
	return g, nil
}
