package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fittrack.v1.FitTrack"

// Method names.
const (
	MethodRegister        = "Register"
	MethodLogin           = "Login"
	MethodLogout          = "Logout"
	MethodWhoAmI          = "WhoAmI"
	MethodListWorkouts    = "ListWorkouts"
	MethodLogWorkout      = "LogWorkout"
	MethodUpdateWorkout   = "UpdateWorkout"
	MethodWorkoutsInRange = "WorkoutsInRange"
	MethodWeeklyWorkouts  = "WeeklyWorkouts"
	MethodListGoals       = "ListGoals"
	MethodCreateGoal      = "CreateGoal"
	MethodUpdateGoal      = "UpdateGoal"
	MethodListExercises   = "ListExercises"
	MethodCreateExercise  = "CreateExercise"
)

// FullMethod returns the gRPC path of method, e.g. "/fittrack.v1.FitTrack/Login".
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// FitTrackServer is the server API of the FitTrack service.
type FitTrackServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error)
	ListWorkouts(context.Context, *ListWorkoutsRequest) (*WorkoutsResponse, error)
	LogWorkout(context.Context, *LogWorkoutRequest) (*WorkoutResponse, error)
	UpdateWorkout(context.Context, *UpdateWorkoutRequest) (*WorkoutResponse, error)
	WorkoutsInRange(context.Context, *WorkoutsInRangeRequest) (*WorkoutsResponse, error)
	WeeklyWorkouts(context.Context, *WeeklyWorkoutsRequest) (*WorkoutsResponse, error)
	ListGoals(context.Context, *ListGoalsRequest) (*GoalsResponse, error)
	CreateGoal(context.Context, *CreateGoalRequest) (*GoalResponse, error)
	UpdateGoal(context.Context, *UpdateGoalRequest) (*GoalResponse, error)
	ListExercises(context.Context, *ListExercisesRequest) (*ExercisesResponse, error)
	CreateExercise(context.Context, *CreateExerciseRequest) (*ExerciseResponse, error)
}

// UnimplementedFitTrackServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible when methods are added.
type UnimplementedFitTrackServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedFitTrackServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, unimplemented(MethodRegister)
}
func (UnimplementedFitTrackServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedFitTrackServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, unimplemented(MethodLogout)
}
func (UnimplementedFitTrackServer) WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error) {
	return nil, unimplemented(MethodWhoAmI)
}
func (UnimplementedFitTrackServer) ListWorkouts(context.Context, *ListWorkoutsRequest) (*WorkoutsResponse, error) {
	return nil, unimplemented(MethodListWorkouts)
}
func (UnimplementedFitTrackServer) LogWorkout(context.Context, *LogWorkoutRequest) (*WorkoutResponse, error) {
	return nil, unimplemented(MethodLogWorkout)
}
func (UnimplementedFitTrackServer) UpdateWorkout(context.Context, *UpdateWorkoutRequest) (*WorkoutResponse, error) {
	return nil, unimplemented(MethodUpdateWorkout)
}
func (UnimplementedFitTrackServer) WorkoutsInRange(context.Context, *WorkoutsInRangeRequest) (*WorkoutsResponse, error) {
	return nil, unimplemented(MethodWorkoutsInRange)
}
func (UnimplementedFitTrackServer) WeeklyWorkouts(context.Context, *WeeklyWorkoutsRequest) (*WorkoutsResponse, error) {
	return nil, unimplemented(MethodWeeklyWorkouts)
}
func (UnimplementedFitTrackServer) ListGoals(context.Context, *ListGoalsRequest) (*GoalsResponse, error) {
	return nil, unimplemented(MethodListGoals)
}
func (UnimplementedFitTrackServer) CreateGoal(context.Context, *CreateGoalRequest) (*GoalResponse, error) {
	return nil, unimplemented(MethodCreateGoal)
}
func (UnimplementedFitTrackServer) UpdateGoal(context.Context, *UpdateGoalRequest) (*GoalResponse, error) {
	return nil, unimplemented(MethodUpdateGoal)
}
func (UnimplementedFitTrackServer) ListExercises(context.Context, *ListExercisesRequest) (*ExercisesResponse, error) {
	return nil, unimplemented(MethodListExercises)
}
func (UnimplementedFitTrackServer) CreateExercise(context.Context, *CreateExerciseRequest) (*ExerciseResponse, error) {
	return nil, unimplemented(MethodCreateExercise)
}

// RegisterFitTrackServer registers srv on s.
func RegisterFitTrackServer(s grpc.ServiceRegistrar, srv FitTrackServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds a method descriptor that decodes Req and dispatches to call through the interceptor chain.
func unary[Req, Resp any](method string, call func(FitTrackServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(FitTrackServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for the FitTrack service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FitTrackServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodRegister, FitTrackServer.Register),
		unary(MethodLogin, FitTrackServer.Login),
		unary(MethodLogout, FitTrackServer.Logout),
		unary(MethodWhoAmI, FitTrackServer.WhoAmI),
		unary(MethodListWorkouts, FitTrackServer.ListWorkouts),
		unary(MethodLogWorkout, FitTrackServer.LogWorkout),
		unary(MethodUpdateWorkout, FitTrackServer.UpdateWorkout),
		unary(MethodWorkoutsInRange, FitTrackServer.WorkoutsInRange),
		unary(MethodWeeklyWorkouts, FitTrackServer.WeeklyWorkouts),
		unary(MethodListGoals, FitTrackServer.ListGoals),
		unary(MethodCreateGoal, FitTrackServer.CreateGoal),
		unary(MethodUpdateGoal, FitTrackServer.UpdateGoal),
		unary(MethodListExercises, FitTrackServer.ListExercises),
		unary(MethodCreateExercise, FitTrackServer.CreateExercise),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fittrack/v1/fittrack.json",
}
