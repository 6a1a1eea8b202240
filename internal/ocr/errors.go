package ocr

import (
	"context"
	"errors"
	"fmt"
)

// The two terminal failure classes of a scan. Every error returned by a
// Recognizer matches exactly one of them with errors.Is.
var (
	// ErrEngineUnavailable is returned when the recognition engine cannot be
	// reached at all: it is not installed, not compiled in, not configured,
	// or rejects our credentials. Retrying with another photo will not help.
	ErrEngineUnavailable = errors.New("OCR engine not available")

	// ErrRecognitionFailed is returned when the engine was reachable but could
	// not process this particular image.
	ErrRecognitionFailed = errors.New("text recognition failed")
)

// Engine unavailability causes.
var (
	// ErrMissingCredentials is returned when a cloud engine has no usable credentials.
	ErrMissingCredentials = fmt.Errorf("%w: missing credentials", ErrEngineUnavailable)

	// ErrTesseractNotFound is returned when the tesseract binary or library is absent.
	ErrTesseractNotFound = fmt.Errorf("%w: tesseract is not installed", ErrEngineUnavailable)

	// ErrLanguageNotInstalled is returned when the requested language model is missing.
	ErrLanguageNotInstalled = fmt.Errorf("%w: language data not installed", ErrEngineUnavailable)

	// ErrUnknownEngine is returned by NewRecognizer for unsupported engine names.
	ErrUnknownEngine = fmt.Errorf("%w: unknown engine", ErrEngineUnavailable)
)

// Recognition failure causes.
var (
	// ErrEmptyImage is returned when the image payload has no bytes.
	ErrEmptyImage = fmt.Errorf("%w: image is empty", ErrRecognitionFailed)

	// ErrImageTooLarge is returned when the image exceeds MaxImageSizeBytes.
	ErrImageTooLarge = fmt.Errorf("%w: image exceeds the maximum size (20MB)", ErrRecognitionFailed)

	// ErrUnsupportedFormat is returned when the payload is not a decodable JPEG or PNG.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported or corrupted image (expected JPEG or PNG)", ErrRecognitionFailed)

	// ErrNoResponse is returned when a cloud engine answers without a result.
	ErrNoResponse = fmt.Errorf("%w: engine returned no result", ErrRecognitionFailed)
)

// OCRError wraps errors with additional context about the OCR processing failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewGoogleVisionRecognizer").
	Op string

	// Engine names the recognizer that failed.
	Engine string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr[%s]: %s failed: %s: %v", e.Engine, e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr[%s]: %s failed: %v", e.Engine, e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(engine, op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return &OCRError{
		Engine:  engine,
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// IsEngineUnavailable reports whether err means the engine cannot be used at all.
func IsEngineUnavailable(err error) bool {
	return errors.Is(err, ErrEngineUnavailable)
}

// IsRecognitionFailed reports whether err means this image could not be processed.
func IsRecognitionFailed(err error) bool {
	return errors.Is(err, ErrRecognitionFailed)
}

// recognitionFailed marks err as a recognition failure, keeping err in the
// chain. Errors already classified are returned unchanged.
func recognitionFailed(err error) error {
	if err == nil || IsEngineUnavailable(err) || IsRecognitionFailed(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
}

// engineUnavailable marks err as an engine availability failure.
func engineUnavailable(err error) error {
	if err == nil || IsEngineUnavailable(err) || IsRecognitionFailed(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
}

// contextFailure returns a recognition failure if ctx is done, nil otherwise.
func contextFailure(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return recognitionFailed(err)
	}
	return nil
}
