// Package model defines domain entities used by services and repositories.
package model

import (
	"strings"
	"time"
)

// GuestPrefix marks identity ids minted for anonymous visitors.
const GuestPrefix = "guest_"

// IdentityKind distinguishes anonymous guests from registered accounts.
type IdentityKind int

const (
	// KindGuest is an identity created implicitly at first contact.
	KindGuest IdentityKind = iota
	// KindRegistered is an identity with a username and password.
	KindRegistered
)

func (k IdentityKind) String() string {
	if k == KindRegistered {
		return "registered"
	}
	return "guest"
}

// Identity is the owner of workouts and goals. Guests carry no password hash.
type Identity struct {
	ID           string
	Kind         IdentityKind
	Username     string // unique among registered identities only
	PasswordHash string // empty for guests
	CreatedAt    time.Time
}

// IsGuest reports whether the identity is anonymous.
func (i Identity) IsGuest() bool { return i.Kind == KindGuest }

// IsGuestID reports whether id has the guest id shape.
func IsGuestID(id string) bool { return strings.HasPrefix(id, GuestPrefix) }

// Intensity of a workout.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Valid reports whether the intensity is one of the known levels.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Workout is a single logged exercise session.
type Workout struct {
	ID           string
	UserID       string
	ExerciseType string
	Duration     int // minutes
	Calories     int
	Intensity    Intensity
	Notes        *string
	Date         time.Time
}

// NewWorkout is the input for creating a workout. Zero Date means now.
type NewWorkout struct {
	ExerciseType string
	Duration     int
	Calories     int
	Intensity    Intensity
	Notes        *string
	Date         time.Time
}

// FromWorkout copies the user-visible fields of w so it can be re-created under another owner.
func FromWorkout(w Workout) NewWorkout {
	return NewWorkout{
		ExerciseType: w.ExerciseType,
		Duration:     w.Duration,
		Calories:     w.Calories,
		Intensity:    w.Intensity,
		Notes:        w.Notes,
		Date:         w.Date,
	}
}

// WorkoutPatch holds a partial workout update; nil fields are left unchanged.
type WorkoutPatch struct {
	ExerciseType *string
	Duration     *int
	Calories     *int
	Intensity    *Intensity
	Notes        *string
	Date         *time.Time
}

// Apply returns w with the non-nil patch fields applied.
func (p WorkoutPatch) Apply(w Workout) Workout {
	if p.ExerciseType != nil {
		w.ExerciseType = *p.ExerciseType
	}
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.Calories != nil {
		w.Calories = *p.Calories
	}
	if p.Intensity != nil {
		w.Intensity = *p.Intensity
	}
	if p.Notes != nil {
		n := *p.Notes
		w.Notes = &n
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	return w
}

// GoalType enumerates the supported goal metrics.
type GoalType string

const (
	GoalDailyCalories  GoalType = "daily_calories"
	GoalWeeklyWorkouts GoalType = "weekly_workouts"
	GoalWeeklyCalories GoalType = "weekly_calories"
	GoalWeeklyMinutes  GoalType = "weekly_minutes"
)

// Valid reports whether the goal type is known.
func (g GoalType) Valid() bool {
	switch g {
	case GoalDailyCalories, GoalWeeklyWorkouts, GoalWeeklyCalories, GoalWeeklyMinutes:
		return true
	}
	return false
}

// Goal is a target with progress. Current changes only through explicit progress updates.
type Goal struct {
	ID      string
	UserID  string
	Type    GoalType
	Target  float64
	Current float64
	Date    time.Time
}

// NewGoal is the input for creating a goal.
type NewGoal struct {
	Type   GoalType
	Target float64
}

// Exercise is an entry of the global catalog.
type Exercise struct {
	ID                string
	Name              string
	Category          string
	CaloriesPerMinute int
	Emoji             string
}

// NewExercise is the input for adding a catalog entry.
type NewExercise struct {
	Name              string
	Category          string
	CaloriesPerMinute int
	Emoji             string
}

// EndOfDay returns the last representable instant of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0
	return day.AddDate(0, 0, -offset)
}
