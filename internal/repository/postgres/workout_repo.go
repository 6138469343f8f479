package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/model"
	"github.com/jackc/pgx/v5"
)

// WorkoutRepo implements WorkoutRepository using PostgreSQL.
type WorkoutRepo struct {
	q   querier
	now func() time.Time
}

// NewWorkoutRepo constructs a workout repository.
func NewWorkoutRepo(db *DB) *WorkoutRepo { return &WorkoutRepo{q: db.Pool, now: time.Now} }

const workoutCols = `id, user_id, exercise_type, duration, calories, intensity, notes, date`

// GetWorkouts returns the owner's workouts, newest first.
func (r *WorkoutRepo) GetWorkouts(ctx context.Context, userID string) ([]model.Workout, error) {
	const q = `
SELECT ` + workoutCols + `
FROM workouts
WHERE user_id=$1
ORDER BY date DESC, seq DESC`
	rows, err := r.q.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectWorkouts(rows)
}

// GetWorkout returns a single workout by id.
func (r *WorkoutRepo) GetWorkout(ctx context.Context, id string) (model.Workout, error) {
	const q = `SELECT ` + workoutCols + ` FROM workouts WHERE id=$1`
	w, err := scanWorkout(r.q.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Workout{}, errs.ErrNotFound
	}
	return w, err
}

// CreateWorkout inserts a workout and returns it with its assigned id.
func (r *WorkoutRepo) CreateWorkout(ctx context.Context, userID string, in model.NewWorkout) (model.Workout, error) {
	const q = `
INSERT INTO workouts (id, user_id, exercise_type, duration, calories, intensity, notes, date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + workoutCols
	id, err := newID()
	if err != nil {
		return model.Workout{}, err
	}
	date := in.Date
	if date.IsZero() {
		date = r.now()
	}
	var notes *string
	if in.Notes != nil {
		notes = textOrNil(*in.Notes)
	}
	return scanWorkout(r.q.QueryRow(ctx, q,
		id, userID, in.ExerciseType, in.Duration, in.Calories, string(in.Intensity), notes, date))
}

// UpdateWorkout applies a partial patch. An empty Notes clears them.
func (r *WorkoutRepo) UpdateWorkout(ctx context.Context, id string, p model.WorkoutPatch) (model.Workout, error) {
	const q = `
UPDATE workouts SET
  exercise_type = COALESCE($2, exercise_type),
  duration = COALESCE($3, duration),
  calories = COALESCE($4, calories),
  intensity = COALESCE($5, intensity),
  notes = CASE WHEN $6::text IS NULL THEN notes ELSE NULLIF($6::text, '') END,
  date = COALESCE($7, date)
WHERE id=$1
RETURNING ` + workoutCols
	var intensity *string
	if p.Intensity != nil {
		s := string(*p.Intensity)
		intensity = &s
	}
	w, err := scanWorkout(r.q.QueryRow(ctx, q, id, p.ExerciseType, p.Duration, p.Calories, intensity, p.Notes, p.Date))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Workout{}, errs.ErrNotFound
	}
	return w, err
}

// GetWorkoutsByDateRange returns the owner's workouts between start and the end of end's day.
func (r *WorkoutRepo) GetWorkoutsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Workout, error) {
	const q = `
SELECT ` + workoutCols + `
FROM workouts
WHERE user_id=$1 AND date >= $2 AND date <= $3
ORDER BY date DESC, seq DESC`
	rows, err := r.q.Query(ctx, q, userID, start, model.EndOfDay(end))
	if err != nil {
		return nil, err
	}
	return collectWorkouts(rows)
}

func scanWorkout(row pgx.Row) (model.Workout, error) {
	var (
		w         model.Workout
		intensity string
	)
	if err := row.Scan(&w.ID, &w.UserID, &w.ExerciseType, &w.Duration, &w.Calories, &intensity, &w.Notes, &w.Date); err != nil {
		return model.Workout{}, err
	}
	w.Intensity = model.Intensity(intensity)
	return w, nil
}

func collectWorkouts(rows pgx.Rows) ([]model.Workout, error) {
	defer rows.Close()
	out := make([]model.Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
