package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/events"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/observability"
	"github.com/and161185/fittrack/internal/repository"
	"go.uber.org/zap"
)

// FitnessService exposes owner-scoped workout and goal operations and the shared exercise catalog.
// A record owned by another identity is reported as errs.ErrNotFound.
type FitnessService struct {
	store repository.Store
	pub   events.Publisher
	log   *zap.Logger
	now   func() time.Time
}

// NewFitnessService constructs FitnessService. A nil publisher or logger is replaced by a no-op.
func NewFitnessService(store repository.Store, pub events.Publisher, log *zap.Logger) *FitnessService {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FitnessService{store: store, pub: pub, log: log, now: time.Now}
}

// UseLocation makes week boundaries follow loc instead of the process zone.
func (s *FitnessService) UseLocation(loc *time.Location) {
	base := s.now
	s.now = func() time.Time { return base().In(loc) }
}

func storeErr(op string, err error) error {
	if err == nil || errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", errs.ErrPersistence, op, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ListWorkouts returns the owner's workouts, newest first.
func (s *FitnessService) ListWorkouts(ctx context.Context, owner string) ([]model.Workout, error) {
	ws, err := s.store.GetWorkouts(ctx, owner)
	return ws, storeErr("list workouts", err)
}

func validateWorkout(exerciseType string, duration, calories int, intensity model.Intensity) error {
	switch {
	case exerciseType == "":
		return invalid("exercise type is required")
	case duration <= 0:
		return invalid("duration must be positive")
	case calories < 0:
		return invalid("calories must not be negative")
	case !intensity.Valid():
		return invalid("unknown intensity %q", intensity)
	}
	return nil
}

// LogWorkout records a workout for owner.
func (s *FitnessService) LogWorkout(ctx context.Context, owner string, in model.NewWorkout) (model.Workout, error) {
	if err := validateWorkout(in.ExerciseType, in.Duration, in.Calories, in.Intensity); err != nil {
		return model.Workout{}, err
	}
	w, err := s.store.CreateWorkout(ctx, owner, in)
	if err != nil {
		return model.Workout{}, storeErr("create workout", err)
	}
	observability.WorkoutLogged()
	ev := events.New(events.TypeWorkoutLogged, events.WorkoutLogged{
		IdentityID:   owner,
		WorkoutID:    w.ID,
		ExerciseType: w.ExerciseType,
		Duration:     w.Duration,
		Calories:     w.Calories,
		Date:         w.Date,
	})
	if err := s.pub.Publish(ctx, events.TopicWorkouts, owner, ev); err != nil {
		s.log.Warn("publish event", zap.String("type", ev.Type), zap.Error(err))
	}
	return w, nil
}

// UpdateWorkout patches one of owner's workouts.
func (s *FitnessService) UpdateWorkout(ctx context.Context, owner string, id string, p model.WorkoutPatch) (model.Workout, error) {
	cur, err := s.store.GetWorkout(ctx, id)
	if err != nil {
		return model.Workout{}, storeErr("get workout", err)
	}
	if cur.UserID != owner {
		return model.Workout{}, errs.ErrNotFound
	}
	next := p.Apply(cur)
	if err := validateWorkout(next.ExerciseType, next.Duration, next.Calories, next.Intensity); err != nil {
		return model.Workout{}, err
	}
	w, err := s.store.UpdateWorkout(ctx, id, p)
	return w, storeErr("update workout", err)
}

// WorkoutsInRange returns owner's workouts from start through the end of end's calendar day.
func (s *FitnessService) WorkoutsInRange(ctx context.Context, owner string, start, end time.Time) ([]model.Workout, error) {
	if end.Before(start) {
		return nil, invalid("end before start")
	}
	ws, err := s.store.GetWorkoutsByDateRange(ctx, owner, start, end)
	return ws, storeErr("workouts by range", err)
}

// WeeklyWorkouts returns owner's workouts for the current Monday-to-Sunday week.
func (s *FitnessService) WeeklyWorkouts(ctx context.Context, owner string) ([]model.Workout, error) {
	start := model.StartOfWeek(s.now())
	return s.WorkoutsInRange(ctx, owner, start, start.AddDate(0, 0, 6))
}

// ListGoals returns owner's goals.
func (s *FitnessService) ListGoals(ctx context.Context, owner string) ([]model.Goal, error) {
	gs, err := s.store.GetGoals(ctx, owner)
	return gs, storeErr("list goals", err)
}

// CreateGoal adds a goal with zero progress.
func (s *FitnessService) CreateGoal(ctx context.Context, owner string, in model.NewGoal) (model.Goal, error) {
	if !in.Type.Valid() {
		return model.Goal{}, invalid("unknown goal type %q", in.Type)
	}
	if in.Target <= 0 {
		return model.Goal{}, invalid("target must be positive")
	}
	g, err := s.store.CreateGoal(ctx, owner, in)
	return g, storeErr("create goal", err)
}

// UpdateGoalProgress sets the progress of one of owner's goals.
func (s *FitnessService) UpdateGoalProgress(ctx context.Context, owner string, id string, current float64) (model.Goal, error) {
	if current < 0 {
		return model.Goal{}, invalid("current must not be negative")
	}
	cur, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return model.Goal{}, storeErr("get goal", err)
	}
	if cur.UserID != owner {
		return model.Goal{}, errs.ErrNotFound
	}
	g, err := s.store.UpdateGoal(ctx, id, current)
	return g, storeErr("update goal", err)
}

// ListExercises returns the catalog.
func (s *FitnessService) ListExercises(ctx context.Context) ([]model.Exercise, error) {
	es, err := s.store.GetExercises(ctx)
	return es, storeErr("list exercises", err)
}

// CreateExercise appends to the catalog.
func (s *FitnessService) CreateExercise(ctx context.Context, in model.NewExercise) (model.Exercise, error) {
	if in.Name == "" || in.Category == "" {
		return model.Exercise{}, invalid("name and category are required")
	}
	if in.CaloriesPerMinute < 0 {
		return model.Exercise{}, invalid("calories per minute must not be negative")
	}
	e, err := s.store.CreateExercise(ctx, in)
	return e, storeErr("create exercise", err)
}
