package ocr

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classifyRPCError sorts a Google Cloud API error into one of the two
// failure classes.
func classifyRPCError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return recognitionFailed(err)
	}

	switch status.Code(err) {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	case codes.PermissionDenied, codes.NotFound, codes.Unavailable, codes.Unimplemented, codes.FailedPrecondition:
		return engineUnavailable(err)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	default:
		return recognitionFailed(err)
	}
}
