package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"idscan/internal/logger"
)

// TesseractCLIRecognizer runs the tesseract program once per image, feeding
// the image on stdin and reading the transcript from stdout.
type TesseractCLIRecognizer struct {
	path string
	psm  int
	log  zerolog.Logger
}

// NewTesseractCLIRecognizer resolves the tesseract binary at path (a name on
// $PATH or an absolute path). psm is the page segmentation mode, 3 being
// tesseract's fully automatic default.
func NewTesseractCLIRecognizer(path string, psm int) (*TesseractCLIRecognizer, error) {
	const op = "NewTesseractCLIRecognizer"

	if path == "" {
		path = "tesseract"
	}

	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, WrapOCRError(EngineNameTesseractCLI, op, ErrTesseractNotFound, err.Error())
	}

	return &TesseractCLIRecognizer{
		path: resolved,
		psm:  psm,
		log:  logger.WithEngine("ocr", EngineNameTesseractCLI),
	}, nil
}

// Name returns the engine name.
func (t *TesseractCLIRecognizer) Name() string {
	return EngineNameTesseractCLI
}

// Recognize runs tesseract over the image.
func (t *TesseractCLIRecognizer) Recognize(ctx context.Context, input ScanInput) (string, error) {
	const op = "Recognize"

	args := []string{"stdin", "stdout", "-l", input.Language().String(), "--psm", strconv.Itoa(t.psm)}
	cmd := exec.CommandContext(ctx, t.path, args...)
	cmd.Stdin = input.reader()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	t.log.Debug().
		Strs("args", args).
		Int("image_size", input.Size()).
		Msg("Running tesseract")

	if err := cmd.Run(); err != nil {
		if ctxErr := contextFailure(ctx); ctxErr != nil {
			return "", WrapOCRError(t.Name(), op, ctxErr, "recognition interrupted")
		}
		return "", WrapOCRError(t.Name(), op, classifyTesseractFailure(err, stderr.String()), strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

// Close is a no-op; every call starts its own process.
func (t *TesseractCLIRecognizer) Close() error {
	return nil
}

// AvailableLanguages lists the language models tesseract has installed.
func (t *TesseractCLIRecognizer) AvailableLanguages(ctx context.Context) ([]string, error) {
	const op = "AvailableLanguages"

	out, err := exec.CommandContext(ctx, t.path, "--list-langs").CombinedOutput()
	if err != nil {
		return nil, WrapOCRError(t.Name(), op, engineUnavailable(err), strings.TrimSpace(string(out)))
	}
	return parseLanguageList(string(out)), nil
}

// parseLanguageList reads the output of "tesseract --list-langs", which is a
// header line followed by one code per line.
func parseLanguageList(out string) []string {
	var langs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of available languages") || strings.Contains(line, " ") {
			continue
		}
		langs = append(langs, line)
	}
	return langs
}

func classifyTesseractFailure(err error, stderr string) error {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return ErrTesseractNotFound
	case strings.Contains(stderr, "Failed loading language"),
		strings.Contains(stderr, "Could not initialize tesseract"):
		return ErrLanguageNotInstalled
	default:
		return fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}
}
