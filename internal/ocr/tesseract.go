//go:build tesseract

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"idscan/internal/logger"
)

// TesseractRecognizer runs libtesseract in-process through gosseract.
// A gosseract client is not safe for concurrent use, so each call gets its own.
type TesseractRecognizer struct {
	psm gosseract.PageSegMode
	log zerolog.Logger
}

// NewTesseractRecognizer creates a recognizer using page segmentation mode psm.
func NewTesseractRecognizer(psm int) (Recognizer, error) {
	return &TesseractRecognizer{
		psm: gosseract.PageSegMode(psm),
		log: logger.WithEngine("ocr", EngineNameTesseract),
	}, nil
}

// Name returns the engine name.
func (t *TesseractRecognizer) Name() string {
	return EngineNameTesseract
}

// Recognize runs tesseract over the image. libtesseract cannot be interrupted,
// so a canceled ctx returns early and the engine finishes in the background.
func (t *TesseractRecognizer) Recognize(ctx context.Context, input ScanInput) (string, error) {
	const op = "Recognize"

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		text, err := t.recognize(input)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", WrapOCRError(t.Name(), op, recognitionFailed(ctx.Err()), "recognition interrupted")
	case res := <-done:
		if res.err != nil {
			return "", WrapOCRError(t.Name(), op, res.err, "")
		}
		return res.text, nil
	}
}

func (t *TesseractRecognizer) recognize(input ScanInput) (string, error) {
	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			t.log.Warn().Err(err).Msg("Failed to close tesseract client")
		}
	}()

	if err := client.SetLanguage(input.Language().Codes()...); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLanguageNotInstalled, err)
	}
	if err := client.SetPageSegMode(t.psm); err != nil {
		return "", recognitionFailed(err)
	}
	if err := client.SetImageFromBytes(input.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	text, err := client.Text()
	if err != nil {
		// Language data is loaded lazily, so a missing model surfaces here.
		if strings.Contains(err.Error(), "TessBaseAPI") {
			return "", fmt.Errorf("%w: %v", ErrLanguageNotInstalled, err)
		}
		return "", recognitionFailed(err)
	}
	return text, nil
}

// Close is a no-op; clients are released after each call.
func (t *TesseractRecognizer) Close() error {
	return nil
}

// tesseractCompiledIn reports whether in-process tesseract support was compiled in.
func tesseractCompiledIn() bool {
	return true
}
