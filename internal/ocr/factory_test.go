package ocr

import (
	"context"
	"path/filepath"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"

	"idscan/internal/config"
)

func TestNewRecognizer_UnknownEngine(t *testing.T) {
	r, err := NewRecognizer(context.Background(), config.OCRConfig{Engine: "abbyy"})

	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrUnknownEngine)
	assert.True(t, IsEngineUnavailable(err))
}

func TestNewRecognizer_TesseractCLIMissing(t *testing.T) {
	r, err := NewRecognizer(context.Background(), config.OCRConfig{
		Engine:        config.EngineTesseractCLI,
		TesseractPath: filepath.Join(t.TempDir(), "tesseract"),
	})

	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrTesseractNotFound)
}

func TestNewRecognizer_TesseractCLI(t *testing.T) {
	path := fakeTesseract(t, "echo hello\n")

	r, err := NewRecognizer(context.Background(), config.OCRConfig{
		Engine:        config.EngineTesseractCLI,
		TesseractPath: path,
		TesseractPSM:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, EngineNameTesseractCLI, r.Name())
	assert.NoError(t, r.Close())
}

func TestNewRecognizer_OpenAIWithoutKey(t *testing.T) {
	r, err := NewRecognizer(context.Background(), config.OCRConfig{Engine: config.EngineOpenAI})

	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewRecognizer_DocumentAIWithoutProcessor(t *testing.T) {
	r, err := NewRecognizer(context.Background(), config.OCRConfig{Engine: config.EngineDocumentAI})

	assert.Nil(t, r)
	assert.True(t, IsEngineUnavailable(err))
}

func TestNewRecognizer_InProcessTesseract(t *testing.T) {
	r, err := NewRecognizer(context.Background(), config.OCRConfig{Engine: config.EngineTesseract, TesseractPSM: 3})
	if tesseractCompiledIn() {
		require.NoError(t, err)
		assert.Equal(t, EngineNameTesseract, r.Name())
		return
	}

	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrTesseractNotFound)
	assert.Contains(t, err.Error(), "-tags tesseract")
}

func TestEngines(t *testing.T) {
	var names []string
	for _, e := range Engines() {
		names = append(names, e.Name)
	}
	assert.Equal(t, config.Engines, names)
}

func TestDocumentAIConfig_ProcessorName(t *testing.T) {
	cfg := DocumentAIConfig{ProjectID: "p", Location: "eu", ProcessorID: "abc"}
	assert.Equal(t, "projects/p/locations/eu/processors/abc", cfg.processorName())

	cfg.ProcessorVersion = "pretrained-ocr-v2.0-2023-06-02"
	assert.Equal(t, "projects/p/locations/eu/processors/abc/processorVersions/pretrained-ocr-v2.0-2023-06-02", cfg.processorName())
}

func TestVisionText(t *testing.T) {
	_, err := visionText(&visionpb.BatchAnnotateImagesResponse{})
	assert.ErrorIs(t, err, ErrNoResponse)

	_, err = visionText(&visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Code: 3, Message: "Bad image data."}}},
	})
	assert.True(t, IsRecognitionFailed(err))
	assert.Contains(t, err.Error(), "Bad image data.")

	text, err := visionText(&visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{}},
	})
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = visionText(&visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{
			FullTextAnnotation: &visionpb.TextAnnotation{Text: "מדינת ישראל\n123456789\n"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "מדינת ישראל\n123456789\n", text)
}

func TestGoogleCredentials_ClientOptions(t *testing.T) {
	assert.Nil(t, GoogleCredentials{}.clientOptions())
	assert.Len(t, GoogleCredentials{JSON: "{}"}.clientOptions(), 1)
	assert.Len(t, GoogleCredentials{File: "/tmp/key.json"}.clientOptions(), 1)
}
