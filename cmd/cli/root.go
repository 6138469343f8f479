package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/and161185/fittrack/internal/api"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Addr       string
	CACert     string
	SkipVerify bool
	Plaintext  bool
	Timeout    time.Duration
	Format     string // "json" | "text"

	// dial is replaced in tests.
	dial func(o *rootOptions) (*grpc.ClientConn, error)
}

var validFormats = []string{"text", "json"}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(&rootOptions{dial: dialServer})
}

func newRootCommandWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fittrack",
		Short:         "FitTrack command line client",
		Long:          "Log workouts and goals as a guest, then register to keep them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", envOr("FITTRACK_ADDR", "localhost:8443"), "server address")
	cmd.PersistentFlags().StringVar(&opts.CACert, "cacert", "", "CA certificate (PEM)")
	cmd.PersistentFlags().BoolVar(&opts.SkipVerify, "insecure", false, "skip certificate verification (dev)")
	cmd.PersistentFlags().BoolVar(&opts.Plaintext, "plaintext", false, "connect without TLS")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command deadline")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newLoginCommand(opts))
	cmd.AddCommand(newLogoutCommand(opts))
	cmd.AddCommand(newWhoAmICommand(opts))
	cmd.AddCommand(newWorkoutCommand(opts))
	cmd.AddCommand(newGoalCommand(opts))
	cmd.AddCommand(newExerciseCommand(opts))
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "fittrack %s (%s)\n", version, buildDate)
			return nil
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ---- grpc dial ----

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

func dialServer(o *rootOptions) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if !o.Plaintext {
		c, err := loadTLS(o.CACert, o.SkipVerify)
		if err != nil {
			return nil, err
		}
		creds = c
	}
	return grpc.NewClient(o.Addr, grpc.WithTransportCredentials(creds))
}

// rpc runs one call with the saved session ticket and stores the ticket the server sends back.
func rpc[Resp any](cmd *cobra.Command, o *rootOptions, call func(ctx context.Context, c *api.Client, opts ...grpc.CallOption) (*Resp, error)) (*Resp, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
	defer cancel()

	cc, err := o.dial(o)
	if err != nil {
		return nil, err
	}
	defer cc.Close()

	ticket, err := loadTicket()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if ticket != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, api.SessionHeader, ticket)
	}

	var hdr metadata.MD
	resp, err := call(ctx, api.NewClient(cc), grpc.Header(&hdr))
	if v := hdr.Get(api.SessionHeader); len(v) > 0 && v[0] != "" && v[0] != ticket {
		if serr := saveTicket(v[0]); serr != nil {
			return resp, fmt.Errorf("save session: %w", serr)
		}
	}
	return resp, err
}
