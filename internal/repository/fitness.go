package repository

import (
	"context"
	"time"

	"github.com/and161185/fittrack/internal/model"
)

// WorkoutRepository stores workouts. Workouts are never deleted.
type WorkoutRepository interface {
	// GetWorkouts lists the owner's workouts, newest first.
	GetWorkouts(ctx context.Context, userID string) ([]model.Workout, error)
	// GetWorkout loads one workout by id regardless of owner.
	GetWorkout(ctx context.Context, id string) (model.Workout, error)
	// CreateWorkout assigns an id; zero Date defaults to now, empty Notes to nil.
	CreateWorkout(ctx context.Context, userID string, w model.NewWorkout) (model.Workout, error)
	// UpdateWorkout applies a partial patch. Returns errs.ErrNotFound if missing.
	UpdateWorkout(ctx context.Context, id string, p model.WorkoutPatch) (model.Workout, error)
	// GetWorkoutsByDateRange lists the owner's workouts with start <= date <= end of end's day.
	GetWorkoutsByDateRange(ctx context.Context, userID string, start, end time.Time) ([]model.Workout, error)
}

// GoalRepository stores goals.
type GoalRepository interface {
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)
	GetGoal(ctx context.Context, id string) (model.Goal, error)
	// CreateGoal stores a goal with Current=0 dated now.
	CreateGoal(ctx context.Context, userID string, g model.NewGoal) (model.Goal, error)
	// UpdateGoal sets progress. Returns errs.ErrNotFound if missing.
	UpdateGoal(ctx context.Context, id string, current float64) (model.Goal, error)
}

// ExerciseRepository stores the global exercise catalog.
type ExerciseRepository interface {
	// GetExercises lists the catalog in insertion order.
	GetExercises(ctx context.Context) ([]model.Exercise, error)
	CreateExercise(ctx context.Context, e model.NewExercise) (model.Exercise, error)
}

// Store is the full record store contract.
type Store interface {
	UserRepository
	WorkoutRepository
	GoalRepository
	ExerciseRepository
}

// Transactor is implemented by stores able to run several writes atomically.
// fn receives a Store bound to the transaction; returning an error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}
