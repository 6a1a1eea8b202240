package ocr

import (
	"context"
	"fmt"
	"strings"

	"idscan/internal/config"
)

// Engine names, as accepted by OCR_ENGINE and --engine.
const (
	EngineNameTesseractCLI = config.EngineTesseractCLI
	EngineNameTesseract    = config.EngineTesseract
	EngineNameVision       = config.EngineVision
	EngineNameDocumentAI   = config.EngineDocumentAI
	EngineNameOpenAI       = config.EngineOpenAI
)

// NewRecognizer builds the recognizer selected by cfg.Engine. Construction
// failures always match ErrEngineUnavailable.
func NewRecognizer(ctx context.Context, cfg config.OCRConfig) (Recognizer, error) {
	const op = "NewRecognizer"

	creds := GoogleCredentials{JSON: cfg.GoogleCredentials, File: cfg.GoogleCredentialsFile}

	var (
		r   Recognizer
		err error
	)

	switch cfg.Engine {
	case EngineNameTesseractCLI, "":
		r, err = asRecognizer(NewTesseractCLIRecognizer(cfg.TesseractPath, cfg.TesseractPSM))
	case EngineNameTesseract:
		r, err = NewTesseractRecognizer(cfg.TesseractPSM)
	case EngineNameVision:
		r, err = asRecognizer(NewGoogleVisionRecognizer(ctx, creds))
	case EngineNameDocumentAI:
		r, err = asRecognizer(NewDocumentAIRecognizer(ctx, DocumentAIConfig{
			ProjectID:        cfg.GoogleCloudProject,
			Location:         cfg.GoogleCloudLocation,
			ProcessorID:      cfg.DocumentAIProcessorID,
			ProcessorVersion: cfg.DocumentAIProcessorVersion,
		}, creds))
	case EngineNameOpenAI:
		r, err = asRecognizer(NewOpenAIRecognizer(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	default:
		return nil, WrapOCRError(cfg.Engine, op, ErrUnknownEngine,
			fmt.Sprintf("supported engines: %s", strings.Join(config.Engines, ", ")))
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// asRecognizer drops the typed nil a failed constructor returns.
func asRecognizer[T Recognizer](r T, err error) (Recognizer, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

// EngineInfo describes an engine for listings.
type EngineInfo struct {
	Name        string
	Description string
	Available   bool
}

// Engines lists the engines this binary can construct. Cloud engines are
// reported available; their credentials are only checked on use.
func Engines() []EngineInfo {
	return []EngineInfo{
		{EngineNameTesseractCLI, "tesseract command line program", true},
		{EngineNameTesseract, "in-process libtesseract (build tag: tesseract)", tesseractCompiledIn()},
		{EngineNameVision, "Google Cloud Vision document text detection", true},
		{EngineNameDocumentAI, "Google Document AI OCR processor", true},
		{EngineNameOpenAI, "OpenAI vision model transcription", true},
	}
}
