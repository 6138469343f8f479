// Package events publishes domain events about identities and workouts.
package events

import (
	"context"
	"time"
)

// Topics.
const (
	TopicIdentity = "fittrack.identity"
	TopicWorkouts = "fittrack.workouts"
)

// Event types.
const (
	TypeIdentityPromoted = "identity.promoted"
	TypeWorkoutLogged    = "workout.logged"
)

// Envelope is the wire shape of every event.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// IdentityPromoted is emitted after a guest (or fresh visitor) registers.
type IdentityPromoted struct {
	FromID        string `json:"fromId"`
	ToID          string `json:"toId"`
	Username      string `json:"username"`
	WorkoutsMoved int    `json:"workoutsMoved"`
	GoalsMoved    int    `json:"goalsMoved"`
}

// WorkoutLogged is emitted for every new workout.
type WorkoutLogged struct {
	IdentityID   string    `json:"identityId"`
	WorkoutID    string    `json:"workoutId"`
	ExerciseType string    `json:"exerciseType"`
	Duration     int       `json:"duration"`
	Calories     int       `json:"calories"`
	Date         time.Time `json:"date"`
}

// Publisher delivers events. key orders events of one identity within a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, e Envelope) error
	Close() error
}

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Envelope) error { return nil }
func (Nop) Close() error                                            { return nil }

// New wraps data into an Envelope stamped with now.
func New(typ string, data any) Envelope {
	return Envelope{Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}
