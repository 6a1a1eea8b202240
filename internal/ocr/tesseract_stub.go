//go:build !tesseract

package ocr

import "fmt"

// NewTesseractRecognizer reports that in-process tesseract support was not
// compiled in. Rebuild with -tags tesseract (requires libtesseract and cgo),
// or use the tesseract-cli engine.
func NewTesseractRecognizer(psm int) (Recognizer, error) {
	return nil, WrapOCRError(EngineNameTesseract, "NewTesseractRecognizer",
		fmt.Errorf("%w: support not compiled in", ErrTesseractNotFound),
		"rebuild with -tags tesseract or use the tesseract-cli engine")
}

func tesseractCompiledIn() bool {
	return false
}
