package ocr

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"idscan/internal/logger"
)

// DocumentAIConfig identifies the Document AI OCR processor to call.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location ("us" or "eu").
	Location string

	// ProcessorID is the ID of an OCR (Document OCR) processor.
	ProcessorID string

	// ProcessorVersion pins a processor version. Empty uses the default.
	ProcessorVersion string
}

// processorName returns the full resource name of the processor.
func (c DocumentAIConfig) processorName() string {
	name := fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
	if c.ProcessorVersion != "" {
		name += "/processorVersions/" + c.ProcessorVersion
	}
	return name
}

// DocumentAIRecognizer implements Recognizer with a Document AI OCR processor.
type DocumentAIRecognizer struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIRecognizer creates a Document AI client for the processor's region.
func NewDocumentAIRecognizer(ctx context.Context, config DocumentAIConfig, creds GoogleCredentials) (*DocumentAIRecognizer, error) {
	const op = "NewDocumentAIRecognizer"

	if config.ProjectID == "" || config.ProcessorID == "" {
		return nil, WrapOCRError(EngineNameDocumentAI, op, ErrEngineUnavailable, "GOOGLE_CLOUD_PROJECT and DOCUMENT_AI_PROCESSOR_ID are required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	clientOptions := creds.clientOptions()
	hasCredentials := len(clientOptions) > 0

	// The "us" multi-region is served by the global endpoint.
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, WrapOCRError(EngineNameDocumentAI, op, fmt.Errorf("%w: %w", ErrMissingCredentials, err), "no credentials found in environment")
		}
		return nil, WrapOCRError(EngineNameDocumentAI, op, engineUnavailable(err), fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIRecognizer{
		client: client,
		config: config,
		log:    logger.WithEngine("ocr", EngineNameDocumentAI),
	}, nil
}

// Name returns the engine name.
func (d *DocumentAIRecognizer) Name() string {
	return EngineNameDocumentAI
}

// Recognize processes the image as a raw document and returns its text.
func (d *DocumentAIRecognizer) Recognize(ctx context.Context, input ScanInput) (string, error) {
	const op = "Recognize"

	req := &documentaipb.ProcessRequest{
		Name: d.config.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  input.Bytes(),
				MimeType: input.Format().MIMEType(),
			},
		},
		ProcessOptions: &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{
					LanguageHints: input.Language().BCP47(),
				},
			},
		},
	}

	d.log.Debug().
		Str("processor", req.Name).
		Int("image_size", input.Size()).
		Msg("Calling Document AI")

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return "", WrapOCRError(d.Name(), op, classifyRPCError(err), fmt.Sprintf("processor: %s", d.config.ProcessorID))
	}
	if resp.GetDocument() == nil {
		return "", WrapOCRError(d.Name(), op, ErrNoResponse, "no document in response")
	}

	return resp.GetDocument().GetText(), nil
}

// Close closes the underlying Document AI client.
func (d *DocumentAIRecognizer) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
