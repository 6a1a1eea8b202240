// Package ocr turns photographs of identity documents into raw text.
//
// A Recognizer wraps one OCR engine. The package ships five:
//   - tesseract-cli: the tesseract command line program (default)
//   - tesseract: libtesseract through gosseract, built with -tags tesseract
//   - vision: Google Cloud Vision document text detection
//   - documentai: a Google Document AI OCR processor
//   - openai: an OpenAI vision model asked for a verbatim transcription
//
// Inputs are JPEG or PNG images of at most 20MB, see NewScanInput.
//
// Failures fall in two classes. ErrEngineUnavailable means the engine cannot
// be used at all (not installed, not configured, bad credentials) and the user
// needs setup guidance. ErrRecognitionFailed means this image could not be
// processed (corrupt data, unsupported format, timeout) and a different photo
// may help. Neither is retried here and no partial text is ever returned.
//
// Required Environment Variables (cloud engines only):
//   - GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS for vision and documentai
//   - GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID for documentai
//   - OPENAI_API_KEY for openai
package ocr

import (
	"context"
	"strings"
)

// Recognizer extracts text from a single image.
type Recognizer interface {
	// Recognize returns the raw transcript of input. It blocks for as long as
	// the engine needs, bounded by ctx.
	Recognize(ctx context.Context, input ScanInput) (string, error)

	// Name returns the engine name, e.g. "tesseract-cli".
	Name() string

	// Close releases engine resources.
	Close() error
}

// Language is a tesseract-style language hint such as "eng" or "heb+eng".
type Language string

const (
	// English is the default language hint.
	English Language = "eng"
	// HebrewEnglish recognizes Hebrew and Latin script together.
	HebrewEnglish Language = "heb+eng"
)

// KnownLanguages lists the hints offered to users. Other values are passed
// through to the engine untouched.
var KnownLanguages = []Language{English, HebrewEnglish}

// ParseLanguage normalizes a user supplied hint. Blank input selects English.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return English
	}
	return Language(s)
}

// Codes splits a combined hint into its tesseract codes.
func (l Language) Codes() []string {
	var codes []string
	for _, code := range strings.Split(string(l), "+") {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// tesseract codes that differ from the BCP-47 tags cloud engines expect.
var bcp47Codes = map[string]string{
	"eng": "en",
	"heb": "he",
	"ara": "ar",
	"rus": "ru",
	"fra": "fr",
	"deu": "de",
	"spa": "es",
}

// BCP47 returns the hint as BCP-47 tags for cloud engines. Unmapped codes are
// passed through.
func (l Language) BCP47() []string {
	codes := l.Codes()
	tags := make([]string, 0, len(codes))
	for _, code := range codes {
		if tag, ok := bcp47Codes[code]; ok {
			code = tag
		}
		tags = append(tags, code)
	}
	return tags
}

// String returns the hint as given.
func (l Language) String() string {
	return string(l)
}
