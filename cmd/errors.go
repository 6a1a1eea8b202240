package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"idscan/internal/ocr"
)

const windowsTesseractURL = "https://github.com/UB-Mannheim/tesseract/wiki"

// handleScanError turns scan failures into messages a user can act on.
func handleScanError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Scan failed")

	switch {
	case errors.Is(err, ocr.ErrTesseractNotFound):
		return fmt.Errorf("Tesseract OCR is not found on this computer.\n\n%s\nOriginal error: %w",
			tesseractInstallHelp(runtime.GOOS), err)
	case errors.Is(err, ocr.ErrLanguageNotInstalled):
		return fmt.Errorf("the requested OCR language data is not installed. "+
			"Run 'idscan languages' to see what is available, or install the Hebrew pack "+
			"(e.g. apt-get install tesseract-ocr-heb).\n\nOriginal error: %w", err)
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("OCR engine credentials are missing or invalid. Please set one of:\n\n"+
			"1. GOOGLE_APPLICATION_CREDENTIALS with the path to a service account JSON file\n"+
			"2. GOOGLE_CREDENTIALS with inline service account JSON\n"+
			"3. OPENAI_API_KEY for the openai engine\n\n"+
			"Original error: %w", err)
	case errors.Is(err, ocr.ErrUnknownEngine):
		return fmt.Errorf("unknown OCR engine. Run 'idscan languages' to list engines: %w", err)
	case ocr.IsEngineUnavailable(err):
		return fmt.Errorf("the OCR engine is not available. Check its installation and configuration: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR timed out. Try increasing --timeout or using a smaller photo: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("scan was canceled")
	case errors.Is(err, ocr.ErrImageTooLarge):
		return fmt.Errorf("image is too large (maximum 20MB). Try a smaller photo: %w", err)
	case errors.Is(err, ocr.ErrUnsupportedFormat), errors.Is(err, ocr.ErrEmptyImage):
		return fmt.Errorf("this file is not a readable JPG or PNG photo: %w", err)
	case ocr.IsRecognitionFailed(err):
		return fmt.Errorf("could not read this photo. Please try a different one: %w", err)
	default:
		return fmt.Errorf("an error occurred: %w", err)
	}
}

// tesseractInstallHelp returns installation steps for goos.
func tesseractInstallHelp(goos string) string {
	switch goos {
	case "windows":
		return "Download Tesseract for Windows: " + windowsTesseractURL + "\n" +
			"If it is installed outside PATH, set TESSERACT_PATH, e.g.\n" +
			`  TESSERACT_PATH=C:\Program Files\Tesseract-OCR\tesseract.exe` + "\n"
	case "darwin":
		return "Install it with Homebrew:\n  brew install tesseract\n"
	default:
		return "Install it with your package manager:\n  sudo apt-get install tesseract-ocr\n"
	}
}
