// Package convert maps domain models to wire messages and back.
package convert

import (
	"github.com/and161185/fittrack/internal/api"
	"github.com/and161185/fittrack/internal/model"
)

// --- identity ---

// ToWireIdentity drops the password hash.
func ToWireIdentity(u model.Identity) api.Identity {
	return api.Identity{ID: u.ID, Username: u.Username, IsGuest: u.IsGuest(), CreatedAt: u.CreatedAt}
}

// --- workouts ---

func ToWireWorkout(w model.Workout) api.Workout {
	return api.Workout{
		ID:           w.ID,
		UserID:       w.UserID,
		ExerciseType: w.ExerciseType,
		Duration:     w.Duration,
		Calories:     w.Calories,
		Intensity:    string(w.Intensity),
		Notes:        w.Notes,
		Date:         w.Date,
	}
}

func ToWireWorkouts(ws []model.Workout) []api.Workout {
	out := make([]api.Workout, 0, len(ws))
	for _, w := range ws {
		out = append(out, ToWireWorkout(w))
	}
	return out
}

// FromLogWorkout converts a request; a nil date stays zero so the store stamps it.
func FromLogWorkout(in *api.LogWorkoutRequest) model.NewWorkout {
	w := model.NewWorkout{
		ExerciseType: in.ExerciseType,
		Duration:     in.Duration,
		Calories:     in.Calories,
		Intensity:    model.Intensity(in.Intensity),
		Notes:        in.Notes,
	}
	if in.Date != nil {
		w.Date = *in.Date
	}
	return w
}

func FromUpdateWorkout(in *api.UpdateWorkoutRequest) model.WorkoutPatch {
	p := model.WorkoutPatch{
		ExerciseType: in.ExerciseType,
		Duration:     in.Duration,
		Calories:     in.Calories,
		Notes:        in.Notes,
		Date:         in.Date,
	}
	if in.Intensity != nil {
		i := model.Intensity(*in.Intensity)
		p.Intensity = &i
	}
	return p
}

// --- goals ---

func ToWireGoal(g model.Goal) api.Goal {
	return api.Goal{ID: g.ID, UserID: g.UserID, Type: string(g.Type), Target: g.Target, Current: g.Current, Date: g.Date}
}

func ToWireGoals(gs []model.Goal) []api.Goal {
	out := make([]api.Goal, 0, len(gs))
	for _, g := range gs {
		out = append(out, ToWireGoal(g))
	}
	return out
}

func FromCreateGoal(in *api.CreateGoalRequest) model.NewGoal {
	return model.NewGoal{Type: model.GoalType(in.Type), Target: in.Target}
}

// --- exercises ---

func ToWireExercise(e model.Exercise) api.Exercise {
	return api.Exercise{ID: e.ID, Name: e.Name, Category: e.Category, CaloriesPerMinute: e.CaloriesPerMinute, Emoji: e.Emoji}
}

func ToWireExercises(es []model.Exercise) []api.Exercise {
	out := make([]api.Exercise, 0, len(es))
	for _, e := range es {
		out = append(out, ToWireExercise(e))
	}
	return out
}

func FromCreateExercise(in *api.CreateExerciseRequest) model.NewExercise {
	return model.NewExercise{Name: in.Name, Category: in.Category, CaloriesPerMinute: in.CaloriesPerMinute, Emoji: in.Emoji}
}
