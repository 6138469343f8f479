package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgcrypto "github.com/and161185/fittrack/internal/crypto"
	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// DemoUsername is the registered identity created by SeedDemo.
const DemoUsername = "demo-user"

// DefaultExercises is the catalog installed into an empty store.
var DefaultExercises = []model.NewExercise{
	{Name: "Running", Category: "Cardio", CaloriesPerMinute: 8, Emoji: "🏃‍♂️"},
	{Name: "Cycling", Category: "Cardio", CaloriesPerMinute: 6, Emoji: "🚴‍♂️"},
	{Name: "Swimming", Category: "Cardio", CaloriesPerMinute: 10, Emoji: "🏊‍♂️"},
	{Name: "Weight Training", Category: "Strength", CaloriesPerMinute: 7, Emoji: "🏋️‍♂️"},
	{Name: "Yoga", Category: "Flexibility", CaloriesPerMinute: 3, Emoji: "🧘‍♀️"},
	{Name: "HIIT", Category: "Cardio", CaloriesPerMinute: 12, Emoji: "⚡"},
	{Name: "Walking", Category: "Cardio", CaloriesPerMinute: 4, Emoji: "🚶‍♂️"},
	{Name: "Push-ups", Category: "Strength", CaloriesPerMinute: 8, Emoji: "💪"},
	{Name: "Squats", Category: "Strength", CaloriesPerMinute: 6, Emoji: "🦵"},
	{Name: "Pull-ups", Category: "Strength", CaloriesPerMinute: 10, Emoji: "💪"},
}

// SeedCatalog installs DefaultExercises when the catalog is empty and returns how many were added.
func SeedCatalog(ctx context.Context, repo repository.ExerciseRepository) (int, error) {
	existing, err := repo.GetExercises(ctx)
	if err != nil {
		return 0, storeErr("list exercises", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, e := range DefaultExercises {
		if _, err := repo.CreateExercise(ctx, e); err != nil {
			return i, storeErr("seed exercise", err)
		}
	}
	return len(DefaultExercises), nil
}

// SeedDemo creates the demo identity with sample workouts spread over the week containing now
// and two goals. It does nothing when the demo identity already exists.
func SeedDemo(ctx context.Context, store repository.Store, password string, now time.Time) (bool, error) {
	if _, err := store.GetUserByUsername(ctx, DemoUsername); err == nil {
		return false, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return false, storeErr("lookup demo", err)
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return false, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return false, err
	}
	demo, err := store.CreateUser(ctx, model.Identity{
		ID: id.String(), Kind: model.KindRegistered, Username: DemoUsername, PasswordHash: hash,
	})
	if err != nil {
		return false, storeErr("create demo", err)
	}

	monday := model.StartOfWeek(now)
	note := func(s string) *string { return &s }
	workouts := []model.NewWorkout{
		{ExerciseType: "Weight Training", Duration: 40, Calories: 280, Intensity: model.IntensityHigh, Notes: note("Strength training session"), Date: monday},
		{ExerciseType: "Running", Duration: 30, Calories: 240, Intensity: model.IntensityMedium, Notes: note("Morning jog in the park"), Date: monday.AddDate(0, 0, 1)},
		{ExerciseType: "Yoga", Duration: 45, Calories: 135, Intensity: model.IntensityLow, Notes: note("Relaxing evening session"), Date: monday.AddDate(0, 0, 3)},
		{ExerciseType: "HIIT", Duration: 20, Calories: 240, Intensity: model.IntensityHigh, Notes: note("Intense workout session"), Date: monday.AddDate(0, 0, 5)},
	}
	for _, w := range workouts {
		if _, err := store.CreateWorkout(ctx, demo.ID, w); err != nil {
			return false, storeErr("seed demo workout", err)
		}
	}

	goals := []struct {
		goal    model.NewGoal
		current float64
	}{
		{model.NewGoal{Type: model.GoalDailyCalories, Target: 500}, 240},
		{model.NewGoal{Type: model.GoalWeeklyWorkouts, Target: 5}, 3},
	}
	for _, g := range goals {
		created, err := store.CreateGoal(ctx, demo.ID, g.goal)
		if err != nil {
			return false, storeErr("seed demo goal", err)
		}
		if _, err := store.UpdateGoal(ctx, created.ID, g.current); err != nil {
			return false, fmt.Errorf("seed demo goal progress: %w", err)
		}
	}
	return true, nil
}
