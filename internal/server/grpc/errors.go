package grpcserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/fittrack/internal/errs"
)

// toStatus maps service errors to gRPC statuses. Causes of internal failures are not exposed.
func toStatus(err error) error {
	switch {
	case errors.Is(err, errs.ErrUsernameTaken):
		return status.Error(codes.AlreadyExists, "username already exists")
	case errors.Is(err, errs.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid username or password")
	case errors.Is(err, errs.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, "too many failed attempts")
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, errs.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal")
	}
}
