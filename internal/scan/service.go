// Package scan runs one identity document scan: OCR followed by field
// extraction.
//
// A scan either yields a complete ScanReport or an error; partial results are
// never returned. Errors keep the ocr failure class, so callers can tell
// ocr.ErrEngineUnavailable (fix the installation) from
// ocr.ErrRecognitionFailed (try another photo). A blank transcript is not an
// error: the report comes back with NoTextDetected set.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"idscan/internal/extract"
	"idscan/internal/logger"
	"idscan/internal/ocr"
	"idscan/pkg/models"
)

// Service scans images with a Recognizer and an Extractor. It keeps no state
// between scans and is safe for concurrent use when its Recognizer is.
type Service struct {
	recognizer ocr.Recognizer
	extractor  *extract.Extractor
	timeout    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each recognition call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithExtractor replaces the default extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a scan service around recognizer.
func NewService(recognizer ocr.Recognizer, opts ...Option) *Service {
	s := &Service{
		recognizer: recognizer,
		extractor:  extract.New(),
		now:        time.Now,
		log:        logger.WithEngine("scan", recognizer.Name()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the name of the underlying OCR engine.
func (s *Service) Engine() string {
	return s.recognizer.Name()
}

// Scan recognizes input and extracts its fields.
func (s *Service) Scan(ctx context.Context, input ocr.ScanInput) (*models.ScanReport, error) {
	start := s.now()

	s.log.Info().
		Str("language", input.Language().String()).
		Str("format", string(input.Format())).
		Int("image_size", input.Size()).
		Msg("Starting scan")

	text, err := s.recognize(ctx, input)
	if err != nil {
		if !ocr.IsEngineUnavailable(err) && !ocr.IsRecognitionFailed(err) {
			err = fmt.Errorf("%w: %w", ocr.ErrRecognitionFailed, err)
		}
		s.log.Error().
			Err(err).
			Bool("engine_unavailable", ocr.IsEngineUnavailable(err)).
			Dur("duration", s.now().Sub(start)).
			Msg("Recognition failed")
		return nil, fmt.Errorf("scan: %w", err)
	}

	result := s.extractor.Extract(text)

	report := ReportFromResult(result)
	report.Engine = s.recognizer.Name()
	report.Language = input.Language().String()
	report.ImageFormat = string(input.Format())
	report.ImageSize = input.Size()
	report.ImageWidth, report.ImageHeight = input.Dimensions()
	report.ScannedAt = s.now()
	report.ProcessingDuration = report.ScannedAt.Sub(start)

	s.log.Info().
		Str("outcome", report.Outcome).
		Bool("id_found", result.HasIDNumber()).
		Int("dates", len(result.Dates)).
		Int("text_length", len(text)).
		Dur("duration", report.ProcessingDuration).
		Msg("Scan completed")

	return report, nil
}

func (s *Service) recognize(ctx context.Context, input ocr.ScanInput) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.recognizer.Recognize(ctx, input)
}

// ReportFromResult renders an extraction result without scan metadata.
func ReportFromResult(result extract.Result) *models.ScanReport {
	dates := make([]string, len(result.Dates))
	copy(dates, result.Dates)

	return &models.ScanReport{
		Transcript:     result.Transcript,
		IDNumber:       result.IDNumber,
		Dates:          dates,
		NoTextDetected: result.IsEmpty,
		Outcome:        string(result.Outcome()),
	}
}

// Close releases the recognizer.
func (s *Service) Close() error {
	return s.recognizer.Close()
}
