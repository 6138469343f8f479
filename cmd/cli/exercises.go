package main

import (
	"context"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/and161185/fittrack/internal/api"
)

func newExerciseCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Browse and extend the exercise catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog exercises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.ExercisesResponse, error) {
				return cl.ListExercises(ctx, &api.ListExercisesRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, textExercises(res.Exercises))
		},
	})

	var req api.CreateExerciseRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.ExerciseResponse, error) {
				return cl.CreateExercise(ctx, &req, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, textExercises([]api.Exercise{res.Exercise}))
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "exercise name")
	add.Flags().StringVar(&req.Category, "category", "", "e.g. Cardio, Strength, Flexibility")
	add.Flags().IntVar(&req.CaloriesPerMinute, "cpm", 0, "calories per minute")
	add.Flags().StringVar(&req.Emoji, "emoji", "", "display emoji")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("category")
	cmd.AddCommand(add)
	return cmd
}
