package ocr

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"idscan/internal/logger"
)

// GoogleVisionRecognizer implements Recognizer using Google Cloud Vision API
// document text detection.
type GoogleVisionRecognizer struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// GoogleCredentials selects how cloud clients authenticate. Inline JSON wins
// over a file; with neither, Application Default Credentials are tried.
type GoogleCredentials struct {
	JSON string
	File string
}

func (c GoogleCredentials) clientOptions() []option.ClientOption {
	switch {
	case c.JSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.JSON))}
	case c.File != "":
		return []option.ClientOption{option.WithCredentialsFile(c.File)}
	default:
		return nil
	}
}

// NewGoogleVisionRecognizer creates a Vision client with the given credentials.
func NewGoogleVisionRecognizer(ctx context.Context, creds GoogleCredentials) (*GoogleVisionRecognizer, error) {
	const op = "NewGoogleVisionRecognizer"

	opts := creds.clientOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(EngineNameVision, op, fmt.Errorf("%w: %w", ErrMissingCredentials, err), "no credentials found in environment")
		}
		return nil, WrapOCRError(EngineNameVision, op, engineUnavailable(err), "failed to create Vision client")
	}

	return NewGoogleVisionRecognizerWithClient(client), nil
}

// NewGoogleVisionRecognizerWithClient wraps an existing client (for testing).
func NewGoogleVisionRecognizerWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionRecognizer {
	return &GoogleVisionRecognizer{
		client: client,
		log:    logger.WithEngine("ocr", EngineNameVision),
	}
}

// Name returns the engine name.
func (g *GoogleVisionRecognizer) Name() string {
	return EngineNameVision
}

// Recognize sends the image inline to Vision and returns the full text annotation.
func (g *GoogleVisionRecognizer) Recognize(ctx context.Context, input ScanInput) (string, error) {
	const op = "Recognize"

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: input.Bytes()},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: input.Language().BCP47(),
				},
			},
		},
	}

	g.log.Debug().
		Strs("language_hints", req.Requests[0].ImageContext.LanguageHints).
		Int("image_size", input.Size()).
		Msg("Calling Vision API")

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", WrapOCRError(g.Name(), op, classifyRPCError(err), "Vision API call failed")
	}

	return visionText(resp)
}

// visionText pulls the transcript out of a batch response holding one image.
func visionText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	const op = "Recognize"

	if resp == nil || len(resp.Responses) == 0 {
		return "", WrapOCRError(EngineNameVision, op, ErrNoResponse, "no response from Vision API")
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return "", WrapOCRError(EngineNameVision, op, ErrRecognitionFailed, fmt.Sprintf("Vision API error: %s", imageResp.Error.Message))
	}

	// No annotation means Vision found no text, which is a blank transcript.
	if imageResp.FullTextAnnotation == nil {
		return "", nil
	}
	return imageResp.FullTextAnnotation.Text, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionRecognizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
