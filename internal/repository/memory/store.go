// Package memory contains an in-process implementation of the record store.
// It keeps no data across restarts and does not support transactions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// Store is a mutex-guarded map store. Each method is atomic on its own.
type Store struct {
	mu sync.RWMutex

	users      map[string]model.Identity
	registered map[string]string // username -> id, registered only
	workouts   map[string]model.Workout
	goals      map[string]model.Goal
	exercises  []model.Exercise

	// insertion order, used for listing and tie-breaks
	workoutOrder []string
	goalOrder    []string

	now   func() time.Time
	newID func() (uuid.UUID, error)
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs overrides the record id generator.
func WithIDs(gen func() (uuid.UUID, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		users:        map[string]model.Identity{},
		registered:   map[string]string{},
		workouts:   map[string]model.Workout{},
		goals:      map[string]model.Goal{},
		now:        time.Now,
		newID:      uuid.NewV4,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) mintID() (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// GetUser loads an identity by id.
func (s *Store) GetUser(_ context.Context, id string) (model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return model.Identity{}, errs.ErrNotFound
	}
	return u, nil
}

// GetUserByUsername loads a registered identity by username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.registered[username]
	if !ok {
		return model.Identity{}, errs.ErrNotFound
	}
	return s.users[id], nil
}

// CreateUser inserts an identity. The username check and insert happen under one lock.
func (s *Store) CreateUser(_ context.Context, u model.Identity) (model.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return model.Identity{}, errs.ErrAlreadyExists
	}
	if u.Kind == model.KindRegistered {
		if _, ok := s.registered[u.Username]; ok {
			return model.Identity{}, errs.ErrAlreadyExists
		}
		s.registered[u.Username] = u.ID
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = u
	return u, nil
}

// GetWorkouts lists the owner's workouts, newest first.
func (s *Store) GetWorkouts(_ context.Context, userID string) ([]model.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterWorkouts(func(w model.Workout) bool { return w.UserID == userID }), nil
}

// GetWorkout loads one workout.
func (s *Store) GetWorkout(_ context.Context, id string) (model.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workouts[id]
	if !ok {
		return model.Workout{}, errs.ErrNotFound
	}
	return w, nil
}

// CreateWorkout stores a workout under userID.
func (s *Store) CreateWorkout(_ context.Context, userID string, in model.NewWorkout) (model.Workout, error) {
	id, err := s.mintID()
	if err != nil {
		return model.Workout{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := model.Workout{
		ID:           id,
		UserID:       userID,
		ExerciseType: in.ExerciseType,
		Duration:     in.Duration,
		Calories:     in.Calories,
		Intensity:    in.Intensity,
		Notes:        normalizeNotes(in.Notes),
		Date:         in.Date,
	}
	if w.Date.IsZero() {
		w.Date = s.now()
	}
	s.workouts[w.ID] = w
	s.workoutOrder = append(s.workoutOrder, w.ID)
	return w, nil
}

// UpdateWorkout applies p to an existing workout.
func (s *Store) UpdateWorkout(_ context.Context, id string, p model.WorkoutPatch) (model.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	if !ok {
		return model.Workout{}, errs.ErrNotFound
	}
	w = p.Apply(w)
	w.Notes = normalizeNotes(w.Notes)
	s.workouts[id] = w
	return w, nil
}

// GetWorkoutsByDateRange lists workouts dated within [start, end of end's day].
func (s *Store) GetWorkoutsByDateRange(_ context.Context, userID string, start, end time.Time) ([]model.Workout, error) {
	last := model.EndOfDay(end)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterWorkouts(func(w model.Workout) bool {
		return w.UserID == userID && !w.Date.Before(start) && !w.Date.After(last)
	}), nil
}

func (s *Store) filterWorkouts(keep func(model.Workout) bool) []model.Workout {
	out := make([]model.Workout, 0)
	for i := len(s.workoutOrder) - 1; i >= 0; i-- {
		if w := s.workouts[s.workoutOrder[i]]; keep(w) {
			out = append(out, w)
		}
	}
	// equal dates keep the later insert first
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// GetGoals lists the owner's goals in creation order.
func (s *Store) GetGoals(_ context.Context, userID string) ([]model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Goal, 0)
	for _, id := range s.goalOrder {
		if g := s.goals[id]; g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

// GetGoal loads one goal.
func (s *Store) GetGoal(_ context.Context, id string) (model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return model.Goal{}, errs.ErrNotFound
	}
	return g, nil
}

// CreateGoal stores a new goal with zero progress.
func (s *Store) CreateGoal(_ context.Context, userID string, in model.NewGoal) (model.Goal, error) {
	id, err := s.mintID()
	if err != nil {
		return model.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := model.Goal{
		ID:     id,
		UserID: userID,
		Type:   in.Type,
		Target: in.Target,
		Date:   s.now(),
	}
	s.goals[g.ID] = g
	s.goalOrder = append(s.goalOrder, g.ID)
	return g, nil
}

// UpdateGoal sets the goal's progress.
func (s *Store) UpdateGoal(_ context.Context, id string, current float64) (model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return model.Goal{}, errs.ErrNotFound
	}
	g.Current = current
	s.goals[id] = g
	return g, nil
}

// GetExercises lists the catalog in insertion order.
func (s *Store) GetExercises(_ context.Context) ([]model.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Exercise, len(s.exercises))
	copy(out, s.exercises)
	return out, nil
}

// CreateExercise appends a catalog entry.
func (s *Store) CreateExercise(_ context.Context, in model.NewExercise) (model.Exercise, error) {
	id, err := s.mintID()
	if err != nil {
		return model.Exercise{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := model.Exercise{
		ID:                id,
		Name:              in.Name,
		Category:          in.Category,
		CaloriesPerMinute: in.CaloriesPerMinute,
		Emoji:             in.Emoji,
	}
	s.exercises = append(s.exercises, e)
	return e, nil
}

func normalizeNotes(n *string) *string {
	if n == nil || *n == "" {
		return nil
	}
	c := *n
	return &c
}
