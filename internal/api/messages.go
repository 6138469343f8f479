package api

import "time"

// SessionHeader is the metadata key carrying the opaque session ticket in both directions.
const SessionHeader = "x-session"

type Identity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User             Identity `json:"user"`
	WorkoutsMigrated int      `json:"workoutsMigrated"`
	GoalsMigrated    int      `json:"goalsMigrated"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User Identity `json:"user"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	IdentityID string `json:"identityId"`
	IsGuest    bool   `json:"isGuest"`
	Username   string `json:"username,omitempty"`
}

type Workout struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ExerciseType string    `json:"exerciseType"`
	Duration     int       `json:"duration"`
	Calories     int       `json:"calories"`
	Intensity    string    `json:"intensity"`
	Notes        *string   `json:"notes"`
	Date         time.Time `json:"date"`
}

type ListWorkoutsRequest struct{}

type WorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
}

// LogWorkoutRequest records a workout. A nil Date means now.
type LogWorkoutRequest struct {
	ExerciseType string     `json:"exerciseType"`
	Duration     int        `json:"duration"`
	Calories     int        `json:"calories"`
	Intensity    string     `json:"intensity"`
	Notes        *string    `json:"notes,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// UpdateWorkoutRequest patches a workout; nil fields are left unchanged and an empty Notes clears them.
type UpdateWorkoutRequest struct {
	ID           string     `json:"id"`
	ExerciseType *string    `json:"exerciseType,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Calories     *int       `json:"calories,omitempty"`
	Intensity    *string    `json:"intensity,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

type WorkoutResponse struct {
	Workout Workout `json:"workout"`
}

// WorkoutsInRangeRequest selects workouts from Start through the end of End's calendar day.
type WorkoutsInRangeRequest struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

type WeeklyWorkoutsRequest struct{}

type Goal struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Type    string    `json:"type"`
	Target  float64   `json:"target"`
	Current float64   `json:"current"`
	Date    time.Time `json:"date"`
}

type ListGoalsRequest struct{}

type GoalsResponse struct {
	Goals []Goal `json:"goals"`
}

type CreateGoalRequest struct {
	Type   string  `json:"type"`
	Target float64 `json:"target"`
}

type UpdateGoalRequest struct {
	ID      string  `json:"id"`
	Current float64 `json:"current"`
}

type GoalResponse struct {
	Goal Goal `json:"goal"`
}

type Exercise struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	CaloriesPerMinute int    `json:"caloriesPerMinute"`
	Emoji             string `json:"emoji"`
}

type ListExercisesRequest struct{}

type ExercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
}

type CreateExerciseRequest struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	CaloriesPerMinute int    `json:"caloriesPerMinute"`
	Emoji             string `json:"emoji"`
}

type ExerciseResponse struct {
	Exercise Exercise `json:"exercise"`
}
