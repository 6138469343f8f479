package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/and161185/fittrack/internal/api"
)

type loginFlags struct {
	username string
	password string
}

func (c *loginFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&c.password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
}

func newRegisterCommand(o *rootOptions) *cobra.Command {
	var c loginFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register and keep the workouts and goals logged as a guest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.RegisterResponse, error) {
				return cl.Register(ctx, &api.RegisterRequest{Username: c.username, Password: c.password}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, func(w io.Writer) {
				fmt.Fprintf(w, "registered %s (%s)\n", res.User.Username, res.User.ID)
				fmt.Fprintf(w, "kept %d workout(s) and %d goal(s)\n", res.WorkoutsMigrated, res.GoalsMigrated)
			})
		},
	}
	c.bind(cmd)
	return cmd
}

func newLoginCommand(o *rootOptions) *cobra.Command {
	var c loginFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a registered user (saves the session)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.LoginResponse, error) {
				return cl.Login(ctx, &api.LoginRequest{Username: c.username, Password: c.password}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, func(w io.Writer) {
				fmt.Fprintf(w, "logged in as %s\n", res.User.Username)
			})
		},
	}
	c.bind(cmd)
	return cmd
}

func newLogoutCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session; the next command starts a new guest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.LogoutResponse, error) {
				return cl.Logout(ctx, &api.LogoutRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			if err := clearTicket(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoAmICommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := rpc(cmd, o, func(ctx context.Context, cl *api.Client, opts ...grpc.CallOption) (*api.WhoAmIResponse, error) {
				return cl.WhoAmI(ctx, &api.WhoAmIRequest{}, opts...)
			})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), o, res, func(w io.Writer) {
				if res.IsGuest {
					fmt.Fprintf(w, "guest %s (register to keep your data)\n", res.IdentityID)
					return
				}
				fmt.Fprintf(w, "%s (%s)\n", res.Username, res.IdentityID)
			})
		},
	}
}
