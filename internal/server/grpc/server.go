// Package grpcserver exposes the FitTrack gRPC API handlers.
package grpcserver

import (
	"context"
	"time"

	"github.com/and161185/fittrack/internal/api"
	"github.com/and161185/fittrack/internal/convert"
	"github.com/and161185/fittrack/internal/model"
	"github.com/and161185/fittrack/internal/service"
	"github.com/and161185/fittrack/internal/session"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Identities is the identity lifecycle used by the handlers.
type Identities interface {
	Register(ctx context.Context, currentID, username, password string) (service.PromotionResult, error)
	Login(ctx context.Context, username, password, ip string) (model.Identity, error)
}

// Fitness is the owner-scoped record service used by the handlers.
type Fitness interface {
	ListWorkouts(ctx context.Context, owner string) ([]model.Workout, error)
	LogWorkout(ctx context.Context, owner string, in model.NewWorkout) (model.Workout, error)
	UpdateWorkout(ctx context.Context, owner string, id string, p model.WorkoutPatch) (model.Workout, error)
	WorkoutsInRange(ctx context.Context, owner string, start, end time.Time) ([]model.Workout, error)
	WeeklyWorkouts(ctx context.Context, owner string) ([]model.Workout, error)
	ListGoals(ctx context.Context, owner string) ([]model.Goal, error)
	CreateGoal(ctx context.Context, owner string, in model.NewGoal) (model.Goal, error)
	UpdateGoalProgress(ctx context.Context, owner string, id string, current float64) (model.Goal, error)
	ListExercises(ctx context.Context) ([]model.Exercise, error)
	CreateExercise(ctx context.Context, in model.NewExercise) (model.Exercise, error)
}

// Server wires services into gRPC handlers. Owner-scoped handlers expect SessionUnary in the chain.
type Server struct {
	api.UnimplementedFitTrackServer
	ids Identities
	fit Fitness
}

// New constructs a gRPC server with injected services.
func New(ids Identities, fit Fitness) *Server {
	return &Server{ids: ids, fit: fit}
}

func owner(ctx context.Context) (Scope, error) {
	sc, ok := ScopeFromCtx(ctx)
	if !ok {
		return Scope{}, status.Error(codes.Internal, "session error")
	}
	return sc, nil
}

// --- identity ---

// Register creates a registered identity, migrating the caller's guest records.
func (s *Server) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.ids.Register(ctx, sc.IdentityID, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	setSession(ctx, session.State{IdentityID: res.Identity.ID, IsGuest: false})
	return &api.RegisterResponse{
		User:             convert.ToWireIdentity(res.Identity),
		WorkoutsMigrated: res.WorkoutsMoved,
		GoalsMigrated:    res.GoalsMoved,
	}, nil
}

// Login authenticates a registered identity and switches the session to it.
func (s *Server) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}
	u, err := s.ids.Login(ctx, req.Username, req.Password, remoteIP(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	setSession(ctx, session.State{IdentityID: u.ID, IsGuest: false})
	return &api.LoginResponse{User: convert.ToWireIdentity(u)}, nil
}

// Logout discards the session; the next call starts as a fresh guest.
func (s *Server) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.LogoutResponse, error) {
	clearSession(ctx)
	return &api.LogoutResponse{}, nil
}

// WhoAmI reports the identity the session resolves to.
func (s *Server) WhoAmI(ctx context.Context, _ *api.WhoAmIRequest) (*api.WhoAmIResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	return &api.WhoAmIResponse{IdentityID: sc.IdentityID, IsGuest: sc.IsGuest, Username: sc.Username}, nil
}

// --- workouts ---

func (s *Server) ListWorkouts(ctx context.Context, _ *api.ListWorkoutsRequest) (*api.WorkoutsResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := s.fit.ListWorkouts(ctx, sc.IdentityID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WorkoutsResponse{Workouts: convert.ToWireWorkouts(ws)}, nil
}

func (s *Server) LogWorkout(ctx context.Context, req *api.LogWorkoutRequest) (*api.WorkoutResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.fit.LogWorkout(ctx, sc.IdentityID, convert.FromLogWorkout(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WorkoutResponse{Workout: convert.ToWireWorkout(w)}, nil
}

func (s *Server) UpdateWorkout(ctx context.Context, req *api.UpdateWorkoutRequest) (*api.WorkoutResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.fit.UpdateWorkout(ctx, sc.IdentityID, req.ID, convert.FromUpdateWorkout(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WorkoutResponse{Workout: convert.ToWireWorkout(w)}, nil
}

func (s *Server) WorkoutsInRange(ctx context.Context, req *api.WorkoutsInRangeRequest) (*api.WorkoutsResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, status.Error(codes.InvalidArgument, "start and end dates are required")
	}
	ws, err := s.fit.WorkoutsInRange(ctx, sc.IdentityID, req.Start, req.End)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WorkoutsResponse{Workouts: convert.ToWireWorkouts(ws)}, nil
}

func (s *Server) WeeklyWorkouts(ctx context.Context, _ *api.WeeklyWorkoutsRequest) (*api.WorkoutsResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := s.fit.WeeklyWorkouts(ctx, sc.IdentityID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.WorkoutsResponse{Workouts: convert.ToWireWorkouts(ws)}, nil
}

// --- goals ---

func (s *Server) ListGoals(ctx context.Context, _ *api.ListGoalsRequest) (*api.GoalsResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	gs, err := s.fit.ListGoals(ctx, sc.IdentityID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GoalsResponse{Goals: convert.ToWireGoals(gs)}, nil
}

func (s *Server) CreateGoal(ctx context.Context, req *api.CreateGoalRequest) (*api.GoalResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	g, err := s.fit.CreateGoal(ctx, sc.IdentityID, convert.FromCreateGoal(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GoalResponse{Goal: convert.ToWireGoal(g)}, nil
}

func (s *Server) UpdateGoal(ctx context.Context, req *api.UpdateGoalRequest) (*api.GoalResponse, error) {
	sc, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	g, err := s.fit.UpdateGoalProgress(ctx, sc.IdentityID, req.ID, req.Current)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GoalResponse{Goal: convert.ToWireGoal(g)}, nil
}

// --- catalog ---

func (s *Server) ListExercises(ctx context.Context, _ *api.ListExercisesRequest) (*api.ExercisesResponse, error) {
	es, err := s.fit.ListExercises(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ExercisesResponse{Exercises: convert.ToWireExercises(es)}, nil
}

func (s *Server) CreateExercise(ctx context.Context, req *api.CreateExerciseRequest) (*api.ExerciseResponse, error) {
	e, err := s.fit.CreateExercise(ctx, convert.FromCreateExercise(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ExerciseResponse{Exercise: convert.ToWireExercise(e)}, nil
}
