package postgres

import (
	"context"

	"github.com/and161185/fittrack/internal/model"
)

// ExerciseRepo implements ExerciseRepository using PostgreSQL.
type ExerciseRepo struct{ q querier }

// NewExerciseRepo constructs an exercise catalog repository.
func NewExerciseRepo(db *DB) *ExerciseRepo { return &ExerciseRepo{q: db.Pool} }

// GetExercises returns the catalog in insertion order.
func (r *ExerciseRepo) GetExercises(ctx context.Context) ([]model.Exercise, error) {
	const q = `SELECT id, name, category, calories_per_minute, emoji FROM exercises ORDER BY seq ASC`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Exercise, 0)
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.CaloriesPerMinute, &e.Emoji); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateExercise appends a catalog entry.
func (r *ExerciseRepo) CreateExercise(ctx context.Context, in model.NewExercise) (model.Exercise, error) {
	const q = `
INSERT INTO exercises (id, name, category, calories_per_minute, emoji)
VALUES ($1, $2, $3, $4, $5)`
	id, err := newID()
	if err != nil {
		return model.Exercise{}, err
	}
	if _, err := r.q.Exec(ctx, q, id, in.Name, in.Category, in.CaloriesPerMinute, in.Emoji); err != nil {
		return model.Exercise{}, err
	}
	return model.Exercise{ID: id, Name: in.Name, Category: in.Category, CaloriesPerMinute: in.CaloriesPerMinute, Emoji: in.Emoji}, nil
}
