package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a typed FitTrack client. It always selects the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *Client) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *Client) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke[WhoAmIResponse](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *Client) ListWorkouts(ctx context.Context, in *ListWorkoutsRequest, opts ...grpc.CallOption) (*WorkoutsResponse, error) {
	return invoke[WorkoutsResponse](ctx, c.cc, MethodListWorkouts, in, opts)
}

func (c *Client) LogWorkout(ctx context.Context, in *LogWorkoutRequest, opts ...grpc.CallOption) (*WorkoutResponse, error) {
	return invoke[WorkoutResponse](ctx, c.cc, MethodLogWorkout, in, opts)
}

func (c *Client) UpdateWorkout(ctx context.Context, in *UpdateWorkoutRequest, opts ...grpc.CallOption) (*WorkoutResponse, error) {
	return invoke[WorkoutResponse](ctx, c.cc, MethodUpdateWorkout, in, opts)
}

func (c *Client) WorkoutsInRange(ctx context.Context, in *WorkoutsInRangeRequest, opts ...grpc.CallOption) (*WorkoutsResponse, error) {
	return invoke[WorkoutsResponse](ctx, c.cc, MethodWorkoutsInRange, in, opts)
}

func (c *Client) WeeklyWorkouts(ctx context.Context, in *WeeklyWorkoutsRequest, opts ...grpc.CallOption) (*WorkoutsResponse, error) {
	return invoke[WorkoutsResponse](ctx, c.cc, MethodWeeklyWorkouts, in, opts)
}

func (c *Client) ListGoals(ctx context.Context, in *ListGoalsRequest, opts ...grpc.CallOption) (*GoalsResponse, error) {
	return invoke[GoalsResponse](ctx, c.cc, MethodListGoals, in, opts)
}

func (c *Client) CreateGoal(ctx context.Context, in *CreateGoalRequest, opts ...grpc.CallOption) (*GoalResponse, error) {
	return invoke[GoalResponse](ctx, c.cc, MethodCreateGoal, in, opts)
}

func (c *Client) UpdateGoal(ctx context.Context, in *UpdateGoalRequest, opts ...grpc.CallOption) (*GoalResponse, error) {
	return invoke[GoalResponse](ctx, c.cc, MethodUpdateGoal, in, opts)
}

func (c *Client) ListExercises(ctx context.Context, in *ListExercisesRequest, opts ...grpc.CallOption) (*ExercisesResponse, error) {
	return invoke[ExercisesResponse](ctx, c.cc, MethodListExercises, in, opts)
}

func (c *Client) CreateExercise(ctx context.Context, in *CreateExerciseRequest, opts ...grpc.CallOption) (*ExerciseResponse, error) {
	return invoke[ExerciseResponse](ctx, c.cc, MethodCreateExercise, in, opts)
}
