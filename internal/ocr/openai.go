package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"idscan/internal/logger"
)

const transcriptionPrompt = `You are an OCR engine. Transcribe every piece of text visible in the image exactly as printed, line by line, in reading order.
Do not translate, summarize, correct, or explain anything. Keep digits, punctuation and separators exactly as they appear.
If there is no legible text, reply with an empty message.`

// chatCompleter is the part of the OpenAI client the recognizer uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIRecognizer implements Recognizer with an OpenAI vision model.
type OpenAIRecognizer struct {
	client chatCompleter
	model  string
	log    zerolog.Logger
}

// NewOpenAIRecognizer creates a recognizer using apiKey and model.
func NewOpenAIRecognizer(apiKey, model string) (*OpenAIRecognizer, error) {
	if apiKey == "" {
		return nil, WrapOCRError(EngineNameOpenAI, "NewOpenAIRecognizer", ErrMissingCredentials, "OPENAI_API_KEY is not set")
	}
	return NewOpenAIRecognizerWithClient(openai.NewClient(apiKey), model), nil
}

// NewOpenAIRecognizerWithClient wraps an existing client (for testing).
func NewOpenAIRecognizerWithClient(client chatCompleter, model string) *OpenAIRecognizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIRecognizer{
		client: client,
		model:  model,
		log:    logger.WithEngine("ocr", EngineNameOpenAI),
	}
}

// Name returns the engine name.
func (o *OpenAIRecognizer) Name() string {
	return EngineNameOpenAI
}

// Recognize asks the model for a verbatim transcription of the image.
func (o *OpenAIRecognizer) Recognize(ctx context.Context, input ScanInput) (string, error) {
	const op = "Recognize"

	dataURI := "data:" + input.Format().MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(input.Bytes())

	prompt := transcriptionPrompt
	if codes := input.Language().BCP47(); len(codes) > 0 {
		prompt += "\nExpected languages: " + strings.Join(codes, ", ") + "."
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	o.log.Debug().
		Str("model", o.model).
		Int("image_size", input.Size()).
		Msg("Calling OpenAI chat completion")

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", WrapOCRError(o.Name(), op, classifyOpenAIError(err), "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", WrapOCRError(o.Name(), op, ErrNoResponse, "no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Close is a no-op; the HTTP client holds no per-recognizer resources.
func (o *OpenAIRecognizer) Close() error {
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %w", ErrMissingCredentials, err)
		case http.StatusForbidden, http.StatusNotFound:
			return engineUnavailable(err)
		}
		return recognitionFailed(err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusInternalServerError {
		return engineUnavailable(err)
	}
	return recognitionFailed(err)
}
