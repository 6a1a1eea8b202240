// Package ocrtest provides an in-memory Recognizer for tests.
package ocrtest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"idscan/internal/ocr"
)

// Recognizer returns a fixed transcript or error and records its calls.
type Recognizer struct {
	Text string
	Err  error

	// Block makes Recognize wait for ctx to finish before answering.
	Block bool

	mu     sync.Mutex
	calls  []ocr.ScanInput
	closed bool
}

// Name returns "fake".
func (r *Recognizer) Name() string {
	return "fake"
}

// Recognize records input and returns the configured result.
func (r *Recognizer) Recognize(ctx context.Context, input ocr.ScanInput) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, input)
	r.mu.Unlock()

	if r.Block {
		<-ctx.Done()
		return "", ocr.WrapOCRError(r.Name(), "Recognize", fmt.Errorf("%w: %w", ocr.ErrRecognitionFailed, ctx.Err()), "")
	}
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Close marks the recognizer closed.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Calls returns the inputs seen so far.
func (r *Recognizer) Calls() []ocr.ScanInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ocr.ScanInput(nil), r.calls...)
}

// Closed reports whether Close was called.
func (r *Recognizer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// PNG returns a blank grayscale PNG of the given size.
func PNG(width, height int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Input returns a small PNG scan input with the given language hint.
func Input(language ocr.Language) ocr.ScanInput {
	in, err := ocr.NewScanInput(PNG(32, 16), language)
	if err != nil {
		panic(err)
	}
	return in
}
