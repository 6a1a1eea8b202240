package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSentinelClasses(t *testing.T) {
	unavailable := []error{ErrEngineUnavailable, ErrMissingCredentials, ErrTesseractNotFound, ErrLanguageNotInstalled, ErrUnknownEngine}
	for _, err := range unavailable {
		assert.True(t, IsEngineUnavailable(err), err.Error())
		assert.False(t, IsRecognitionFailed(err), err.Error())
	}

	failed := []error{ErrRecognitionFailed, ErrEmptyImage, ErrImageTooLarge, ErrUnsupportedFormat, ErrNoResponse}
	for _, err := range failed {
		assert.True(t, IsRecognitionFailed(err), err.Error())
		assert.False(t, IsEngineUnavailable(err), err.Error())
	}
}

func TestOCRError(t *testing.T) {
	err := WrapOCRError("vision", "Recognize", ErrNoResponse, "no response from Vision API")

	assert.Equal(t, "ocr[vision]: Recognize failed: no response from Vision API: text recognition failed: engine returned no result", err.Error())
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.ErrorIs(t, err, ErrRecognitionFailed)

	plain := WrapOCRError("vision", "Close", errors.New("boom"), "")
	assert.Equal(t, "ocr[vision]: Close failed: boom", plain.Error())
}

func TestWrapOCRError_DoesNotDoubleWrap(t *testing.T) {
	inner := WrapOCRError("tesseract-cli", "Recognize", ErrLanguageNotInstalled, "heb")
	outer := WrapOCRError("scan", "Scan", inner, "ignored")

	assert.Same(t, inner, outer)
	assert.Nil(t, WrapOCRError("x", "y", nil, ""))
}

func TestRecognitionFailed_KeepsContextError(t *testing.T) {
	err := recognitionFailed(context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrRecognitionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Same(t, ErrLanguageNotInstalled, recognitionFailed(ErrLanguageNotInstalled))
}

func TestContextFailure(t *testing.T) {
	assert.NoError(t, contextFailure(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := contextFailure(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsRecognitionFailed(err))
}

func TestClassifyRPCError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
		wantIs          error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad token"), true, ErrMissingCredentials},
		{"permission denied", status.Error(codes.PermissionDenied, "no role"), true, ErrEngineUnavailable},
		{"processor not found", status.Error(codes.NotFound, "processor"), true, ErrEngineUnavailable},
		{"service unreachable", status.Error(codes.Unavailable, "dns"), true, ErrEngineUnavailable},
		{"bad image", status.Error(codes.InvalidArgument, "bad image data"), false, ErrUnsupportedFormat},
		{"server deadline", status.Error(codes.DeadlineExceeded, "slow"), false, ErrRecognitionFailed},
		{"internal", status.Error(codes.Internal, "oops"), false, ErrRecognitionFailed},
		{"local deadline", context.DeadlineExceeded, false, context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyRPCError(tt.err)

			assert.Equal(t, tt.wantUnavailable, IsEngineUnavailable(err))
			assert.Equal(t, !tt.wantUnavailable, IsRecognitionFailed(err))
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}

	assert.NoError(t, classifyRPCError(nil))
}
