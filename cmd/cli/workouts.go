package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/and161185/fittrack/internal/api"
)

func newWorkoutCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workout",
		Aliases: []string{"w"},
		Short:   "Log and browse workouts",
	}
	cmd.AddCommand(newWorkoutLogCommand(o))
	cmd.AddCommand(newWorkoutListCommand(o))
	cmd.AddCommand(newWorkoutUpdateCommand(o))
	cmd.AddCommand(newWorkoutWeekCommand(o))
	cmd.AddCommand(newWorkoutRangeCommand(o))
	return cmd
}

func showWorkout(cmd *cobra.Command, o *rootOptions, res *api.WorkoutResponse) error {
	return render(cmd.OutOrStdout(), o, res, textWorkouts([]api.Workout{res.Workout}))
}

func showWorkouts(cmd *cobra.Command, o *rootOptions, res *api.WorkoutsResponse) error {
	return render(cmd.OutOrStdout(), o, res, textWorkouts(res.Workouts))
}

func newWorkoutLogCommand(o *rootOptions) *cobra.Command {
	var (
		req   api.LogWorkoutRequest
		notes string
		date  string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a workout",
		Example: `  fittrack workout log --type Running --duration 30 --calories 240 --intensity medium
  fittrack workout log --type Yoga --duration 45 --calories 135 --intensity low --date 2024-05-06 --notes "evening"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if notes != "" {
				req.Notes = &notes
			}
			if date != "" {
				d, err := parseDate(date, time.Local)
				if err != nil {
					return err
				}
				req.Date = &d
			}
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WorkoutResponse, error) {
				return cl.LogWorkout(ctx, &req, opts...)
			})
			if err != nil {
				return err
			}
			return showWorkout(cmd, o, res)
		},
	}
	cmd.Flags().StringVar(&req.ExerciseType, "type", "", "exercise type, e.g. Running")
	cmd.Flags().IntVar(&req.Duration, "duration", 0, "minutes")
	cmd.Flags().IntVar(&req.Calories, "calories", 0, "calories burned")
	cmd.Flags().StringVar(&req.Intensity, "intensity", "medium", "low|medium|high")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD or RFC 3339 (default now)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func newWorkoutListCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WorkoutsResponse, error) {
				return cl.ListWorkouts(ctx, &api.ListWorkoutsRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			return showWorkouts(cmd, o, res)
		},
	}
}

func newWorkoutUpdateCommand(o *rootOptions) *cobra.Command {
	var (
		exerciseType, intensity, notes, date string
		duration, calories                   int
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a workout; --notes \"\" clears notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.UpdateWorkoutRequest{ID: args[0]}
			f := cmd.Flags()
			if f.Changed("type") {
				req.ExerciseType = &exerciseType
			}
			if f.Changed("duration") {
				req.Duration = &duration
			}
			if f.Changed("calories") {
				req.Calories = &calories
			}
			if f.Changed("intensity") {
				req.Intensity = &intensity
			}
			if f.Changed("notes") {
				req.Notes = &notes
			}
			if f.Changed("date") {
				d, err := parseDate(date, time.Local)
				if err != nil {
					return err
				}
				req.Date = &d
			}
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WorkoutResponse, error) {
				return cl.UpdateWorkout(ctx, &req, opts...)
			})
			if err != nil {
				return err
			}
			return showWorkout(cmd, o, res)
		},
	}
	cmd.Flags().StringVar(&exerciseType, "type", "", "exercise type")
	cmd.Flags().IntVar(&duration, "duration", 0, "minutes")
	cmd.Flags().IntVar(&calories, "calories", 0, "calories burned")
	cmd.Flags().StringVar(&intensity, "intensity", "", "low|medium|high")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&date, "date", "", "YYYY-MM-DD or RFC 3339")
	return cmd
}

func newWorkoutWeekCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Workouts of the current Monday-to-Sunday week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WorkoutsResponse, error) {
				return cl.WeeklyWorkouts(ctx, &api.WeeklyWorkoutsRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			return showWorkouts(cmd, o, res)
		},
	}
}

func newWorkoutRangeCommand(o *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Workouts between two dates, both days included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseDate(from, time.Local)
			if err != nil {
				return err
			}
			end, err := parseDate(to, time.Local)
			if err != nil {
				return err
			}
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WorkoutsResponse, error) {
				return cl.WorkoutsInRange(ctx, &api.WorkoutsInRangeRequest{Start: start, End: end}, opts...)
			})
			if err != nil {
				return err
			}
			return showWorkouts(cmd, o, res)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
