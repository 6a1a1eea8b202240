package ocr

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAIRecognizer_Recognize(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "ID 123456789\n01/02/1990"}},
		},
	}}
	r := NewOpenAIRecognizerWithClient(fake, "")

	text, err := r.Recognize(context.Background(), mustInput(t, HebrewEnglish))
	require.NoError(t, err)
	assert.Equal(t, "ID 123456789\n01/02/1990", text)

	assert.Equal(t, openai.GPT4oMini, fake.req.Model)
	require.Len(t, fake.req.Messages, 1)
	parts := fake.req.Messages[0].MultiContent
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, "Expected languages: he, en.")
	require.NotNil(t, parts[1].ImageURL)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,"))
}

func TestOpenAIRecognizer_NoChoices(t *testing.T) {
	r := NewOpenAIRecognizerWithClient(&fakeCompleter{}, "gpt-4o")

	_, err := r.Recognize(context.Background(), mustInput(t, English))
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestOpenAIRecognizer_ErrorClasses(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{"bad key", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "invalid api key"}, true},
		{"unknown model", &openai.APIError{HTTPStatusCode: http.StatusNotFound, Message: "model not found"}, true},
		{"rejected image", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "invalid image"}, false},
		{"server down", &openai.RequestError{HTTPStatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}, true},
		{"network", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewOpenAIRecognizerWithClient(&fakeCompleter{err: tt.err}, "gpt-4o")

			_, err := r.Recognize(context.Background(), mustInput(t, English))
			require.Error(t, err)
			assert.Equal(t, tt.wantUnavailable, IsEngineUnavailable(err))
			assert.Equal(t, !tt.wantUnavailable, IsRecognitionFailed(err))
		})
	}
}

func TestNewOpenAIRecognizer_RequiresKey(t *testing.T) {
	_, err := NewOpenAIRecognizer("", "gpt-4o")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
