package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/and161185/fittrack/internal/errs"
	"github.com/and161185/fittrack/internal/events"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/repository/memory"
	"github.com/and161185/fittrack/internal/session"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newIdentity(t *testing.T, store *flakyStore, lim *fakeLimiter) (*IdentityService, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	if lim == nil {
		lim = &fakeLimiter{allowOK: true}
	}
	return NewIdentityService(store, lim, pub, zaptest.NewLogger(t)), pub
}

func TestEnsureIdentity_FreshSessionMintsGuest(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)
	ctx := context.Background()

	res, err := s.EnsureIdentity(ctx, session.State{})
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if !res.IsGuest || res.Patch == nil || res.Patch.IdentityID != res.IdentityID || !res.Patch.IsGuest {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if !strings.HasPrefix(res.IdentityID, "guest_") {
		t.Fatalf("guest id shape: %s", res.IdentityID)
	}
	raw := strings.TrimPrefix(res.IdentityID, "guest_")
	if _, err := uuid.FromString(raw); err != nil {
		t.Fatalf("guest id must embed a uuid: %v", err)
	}

	u, err := store.GetUser(ctx, res.IdentityID)
	if err != nil {
		t.Fatalf("guest record missing: %v", err)
	}
	if !u.IsGuest() || u.Username != "guest_"+raw[:8] || u.PasswordHash != "" {
		t.Fatalf("guest record: %+v", u)
	}

	again, err := s.EnsureIdentity(ctx, *res.Patch)
	if err != nil {
		t.Fatalf("EnsureIdentity(2): %v", err)
	}
	if again.IdentityID != res.IdentityID || again.Patch != nil {
		t.Fatalf("second call must be stable without patch: %+v", again)
	}
}

func TestEnsureIdentity_RegisteredLoaded(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)
	ctx := context.Background()
	_, _ = store.CreateUser(ctx, model.Identity{ID: "u-1", Kind: model.KindRegistered, Username: "alice", PasswordHash: "h"})

	res, err := s.EnsureIdentity(ctx, session.State{IdentityID: "u-1"})
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if res.IsGuest || res.User == nil || res.User.Username != "alice" || res.Patch != nil {
		t.Fatalf("unexpected resolution: %+v", res)
	}
}

func TestEnsureIdentity_MissingRegisteredFallsBackToGuest(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)

	res, err := s.EnsureIdentity(context.Background(), session.State{IdentityID: "deleted-user"})
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	if !res.IsGuest || res.Patch == nil || res.IdentityID == "deleted-user" {
		t.Fatalf("want fresh guest, got %+v", res)
	}
}

func TestEnsureIdentity_GuestAlreadyExistsIgnored(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)
	fixed := uuid.Must(uuid.NewV4())
	s.newID = func() (uuid.UUID, error) { return fixed, nil }
	ctx := context.Background()

	first, err := s.EnsureIdentity(ctx, session.State{})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.EnsureIdentity(ctx, session.State{})
	if err != nil {
		t.Fatalf("duplicate guest must be ignored: %v", err)
	}
	if first.IdentityID != second.IdentityID {
		t.Fatalf("ids differ: %s vs %s", first.IdentityID, second.IdentityID)
	}
}

func TestEnsureIdentity_StoreFailure(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New(), createUserErr: errDisk}
	s, _ := newIdentity(t, store, nil)

	_, err := s.EnsureIdentity(context.Background(), session.State{})
	if !errors.Is(err, errs.ErrPersistence) || !errors.Is(err, errDisk) {
		t.Fatalf("want persistence error wrapping cause, got %v", err)
	}

	store.createUserErr = nil
	store.getUserErr = errDisk
	_, err = s.EnsureIdentity(context.Background(), session.State{IdentityID: "u-1"})
	if !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want persistence error on registered load, got %v", err)
	}
}

func seedGuest(t *testing.T, s *IdentityService, store *flakyStore, workouts, goals int) string {
	t.Helper()
	ctx := context.Background()
	res, err := s.EnsureIdentity(ctx, session.State{})
	if err != nil {
		t.Fatalf("EnsureIdentity: %v", err)
	}
	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < workouts; i++ {
		n := "session"
		if _, err := store.Store.CreateWorkout(ctx, res.IdentityID, model.NewWorkout{
			ExerciseType: "Running", Duration: 20 + i, Calories: 200 + i, Intensity: model.IntensityMedium,
			Notes: &n, Date: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("seed workout: %v", err)
		}
	}
	for i := 0; i < goals; i++ {
		g, err := store.Store.CreateGoal(ctx, res.IdentityID, model.NewGoal{Type: model.GoalWeeklyMinutes, Target: float64(100 + i)})
		if err != nil {
			t.Fatalf("seed goal: %v", err)
		}
		if _, err := store.Store.UpdateGoal(ctx, g.ID, float64(10*i+5)); err != nil {
			t.Fatalf("seed goal progress: %v", err)
		}
	}
	return res.IdentityID
}

func TestRegister_MigratesGuestData(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, pub := newIdentity(t, store, nil)
	ctx := context.Background()
	guestID := seedGuest(t, s, store, 3, 2)

	res, err := s.Register(ctx, guestID, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.WorkoutsMoved != 3 || res.GoalsMoved != 2 || res.Identity.IsGuest() {
		t.Fatalf("unexpected result: %+v", res)
	}

	oldW, _ := store.GetWorkouts(ctx, guestID)
	newW, _ := store.GetWorkouts(ctx, res.Identity.ID)
	if len(oldW) != 3 || len(newW) != 3 {
		t.Fatalf("workouts: guest=%d new=%d", len(oldW), len(newW))
	}
	for i := range oldW {
		if model.FromWorkout(oldW[i]).ExerciseType != newW[i].ExerciseType ||
			oldW[i].Duration != newW[i].Duration || oldW[i].Calories != newW[i].Calories ||
			oldW[i].Intensity != newW[i].Intensity || *oldW[i].Notes != *newW[i].Notes ||
			!oldW[i].Date.Equal(newW[i].Date) {
			t.Fatalf("workout %d differs: %+v vs %+v", i, oldW[i], newW[i])
		}
	}

	oldG, _ := store.GetGoals(ctx, guestID)
	newG, _ := store.GetGoals(ctx, res.Identity.ID)
	if len(newG) != 2 {
		t.Fatalf("goals moved: %d", len(newG))
	}
	for i := range oldG {
		if oldG[i].Type != newG[i].Type || oldG[i].Target != newG[i].Target || oldG[i].Current != newG[i].Current {
			t.Fatalf("goal %d differs: %+v vs %+v", i, oldG[i], newG[i])
		}
	}

	u, err := store.GetUserByUsername(ctx, "alice")
	if err != nil || u.ID != res.Identity.ID || u.PasswordHash == "s3cret" {
		t.Fatalf("registered identity: %+v err=%v", u, err)
	}

	if len(pub.got) != 1 || pub.got[0].env.Type != events.TypeIdentityPromoted || pub.got[0].topic != events.TopicIdentity {
		t.Fatalf("want one promotion event, got %+v", pub.got)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)
	ctx := context.Background()
	_, _ = store.Store.CreateUser(ctx, model.Identity{ID: "u-1", Kind: model.KindRegistered, Username: "alice", PasswordHash: "h"})
	guestID := seedGuest(t, s, store, 1, 0)
	calls := store.createUserCalls

	_, err := s.Register(ctx, guestID, "alice", "pw")
	if !errors.Is(err, errs.ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}
	if store.createUserCalls != calls {
		t.Fatalf("no identity must be created, CreateUser called %d times", store.createUserCalls-calls)
	}
}

func TestRegister_UsernameTakenAtInsert(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New(), createUserErr: errs.ErrAlreadyExists}
	s, _ := newIdentity(t, store, nil)

	_, err := s.Register(context.Background(), "", "bob", "pw")
	if !errors.Is(err, errs.ErrUsernameTaken) {
		t.Fatalf("unique violation must surface as ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	s, _ := newIdentity(t, &flakyStore{Store: memory.New()}, nil)

	for _, in := range [][2]string{{"", "pw"}, {"bob", ""}} {
		if _, err := s.Register(context.Background(), "", in[0], in[1]); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument for %q, got %v", in, err)
		}
	}
}

func TestRegister_FromRegisteredDoesNotMigrate(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, _ := newIdentity(t, store, nil)
	ctx := context.Background()
	_, _ = store.Store.CreateUser(ctx, model.Identity{ID: "u-1", Kind: model.KindRegistered, Username: "alice", PasswordHash: "h"})
	_, _ = store.Store.CreateWorkout(ctx, "u-1", model.NewWorkout{ExerciseType: "Yoga", Duration: 10, Calories: 30, Intensity: model.IntensityLow})

	res, err := s.Register(ctx, "u-1", "second", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.WorkoutsMoved != 0 {
		t.Fatalf("registered source must not migrate, moved %d", res.WorkoutsMoved)
	}
}

func TestRegister_PartialMigrationWithoutTransactions(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	s, pub := newIdentity(t, store, nil)
	ctx := context.Background()
	guestID := seedGuest(t, s, store, 3, 1)
	store.createWorkoutCalls = 0
	store.failCreateWorkoutAt = 2

	res, err := s.Register(ctx, guestID, "alice", "pw")
	if !errors.Is(err, errs.ErrPersistence) || !errors.Is(err, errDisk) {
		t.Fatalf("want persistence error, got %v", err)
	}
	if res.Identity.ID == "" || res.WorkoutsMoved != 1 || res.GoalsMoved != 0 {
		t.Fatalf("partial result: %+v", res)
	}
	moved, _ := store.GetWorkouts(ctx, res.Identity.ID)
	if len(moved) != 1 {
		t.Fatalf("already migrated workouts must stay, got %d", len(moved))
	}
	if _, err := store.GetUserByUsername(ctx, "alice"); err != nil {
		t.Fatalf("identity stays registered after partial failure: %v", err)
	}
	if len(pub.got) != 0 {
		t.Fatalf("no event on failure")
	}
}

func TestRegister_TransactionalRollsBack(t *testing.T) {
	t.Parallel()
	inner := &flakyStore{Store: memory.New()}
	store := &txStore{flakyStore: inner}
	s := NewIdentityService(store, &fakeLimiter{allowOK: true}, nil, zaptest.NewLogger(t))
	guestRes, _ := s.EnsureIdentity(context.Background(), session.State{})
	inner.failCreateGoal = true
	_, _ = inner.Store.CreateGoal(context.Background(), guestRes.IdentityID, model.NewGoal{Type: model.GoalDailyCalories, Target: 100})

	res, err := s.Register(context.Background(), guestRes.IdentityID, "alice", "pw")
	if !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("want persistence error, got %v", err)
	}
	if store.rolledBack != 1 || store.committed != 0 {
		t.Fatalf("want rollback, got commit=%d rollback=%d", store.committed, store.rolledBack)
	}
	if res.Identity.ID != "" || res.WorkoutsMoved != 0 || res.GoalsMoved != 0 {
		t.Fatalf("rolled back result must be empty: %+v", res)
	}

	inner.failCreateGoal = false
	if _, err := s.Register(context.Background(), guestRes.IdentityID, "bob", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if store.committed != 1 {
		t.Fatalf("want commit")
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	lim := &fakeLimiter{allowOK: true}
	s, _ := newIdentity(t, store, lim)
	ctx := context.Background()
	if _, err := s.Register(ctx, "", "demo-user", "demo-pass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, errWrong := s.Login(ctx, "demo-user", "wrong-pass", "1.2.3.4")
	_, errMissing := s.Login(ctx, "nonexistent-user", "x", "1.2.3.4")
	if !errors.Is(errWrong, errs.ErrInvalidCredentials) || errWrong != errMissing {
		t.Fatalf("failures must be indistinguishable: %v vs %v", errWrong, errMissing)
	}
	if lim.failureCalls != 2 {
		t.Fatalf("both failures must be counted, got %d", lim.failureCalls)
	}

	u, err := s.Login(ctx, "demo-user", "demo-pass", "1.2.3.4")
	if err != nil || u.Username != "demo-user" || u.IsGuest() {
		t.Fatalf("Login ok: %+v err=%v", u, err)
	}
	if lim.successCalls != 1 {
		t.Fatalf("success must reset limiter")
	}
}

func TestLogin_RateLimited(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}

	s, _ := newIdentity(t, store, &fakeLimiter{allowOK: false})
	if _, err := s.Login(context.Background(), "u", "p", "ip"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}

	s, _ = newIdentity(t, store, &fakeLimiter{allowOK: true, failBlocked: true})
	if _, err := s.Login(context.Background(), "u", "p", "ip"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("threshold failure must rate limit, got %v", err)
	}

	s, _ = newIdentity(t, store, &fakeLimiter{allowErr: errDisk})
	if _, err := s.Login(context.Background(), "u", "p", "ip"); !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("limiter failure is a persistence error, got %v", err)
	}
}

func TestLogin_LimiterWriteErrorsAreLogged(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New()}
	lim := &fakeLimiter{allowOK: true, failErr: errDisk, successErr: errDisk}
	core, logs := observer.New(zap.WarnLevel)
	s := NewIdentityService(store, lim, &fakePublisher{}, zap.New(core))
	ctx := context.Background()
	if _, err := s.Register(ctx, "", "demo-user", "demo-pass"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := s.Login(ctx, "demo-user", "wrong-pass", "1.2.3.4"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("failure write error must not change the outcome, got %v", err)
	}
	if n := logs.FilterMessage("limiter record failure").Len(); n != 1 {
		t.Fatalf("want 1 failure warning, got %d", n)
	}

	if _, err := s.Login(ctx, "demo-user", "demo-pass", "1.2.3.4"); err != nil {
		t.Fatalf("reset error must not fail login: %v", err)
	}
	entries := logs.FilterMessage("limiter reset").All()
	if len(entries) != 1 || entries[0].ContextMap()["error"] != errDisk.Error() {
		t.Fatalf("want 1 reset warning carrying the error, got %+v", entries)
	}
}

func TestLogin_StoreFailureIsNotMasked(t *testing.T) {
	t.Parallel()
	store := &flakyStore{Store: memory.New(), getByNameErr: errDisk}
	s, _ := newIdentity(t, store, nil)

	_, err := s.Login(context.Background(), "u", "p", "ip")
	if !errors.Is(err, errs.ErrPersistence) || errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("want persistence error, got %v", err)
	}
}
