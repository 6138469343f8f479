package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/and161185/fittrack/internal/api"
)

func newGoalCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(newGoalListCommand(o))
	cmd.AddCommand(newGoalCreateCommand(o))
	cmd.AddCommand(newGoalProgressCommand(o))
	return cmd
}

func newGoalListCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.GoalsResponse, error) {
				return cl.ListGoals(ctx, &api.ListGoalsRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, textGoals(res.Goals))
		},
	}
}

func newGoalCreateCommand(o *rootOptions) *cobra.Command {
	var req api.CreateGoalRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a goal",
		Example: `  fittrack goal create --type weekly_workouts --target 5
  fittrack goal create --type daily_calories --target 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.GoalResponse, error) {
				return cl.CreateGoal(ctx, &req, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, textGoals([]api.Goal{res.Goal}))
		},
	}
	cmd.Flags().StringVar(&req.Type, "type", "", "daily_calories|weekly_workouts|weekly_calories|weekly_minutes")
	cmd.Flags().Float64Var(&req.Target, "target", 0, "target value")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newGoalProgressCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <current>",
		Short: "Set the progress of a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			current, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad progress %q", args[1])
			}
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.GoalResponse, error) {
				return cl.UpdateGoal(ctx, &api.UpdateGoalRequest{ID: id, Current: current}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, textGoals([]api.Goal{res.Goal}))
		},
	}
}
