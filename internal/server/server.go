// Package server exposes identity document scanning over HTTP.
//
// Routes:
//
//	GET  /health               liveness probe
//	POST /api/v1/scans         multipart upload: "image" file, optional "lang"
//	POST /api/v1/extractions   JSON {"transcript": "..."}: extraction only
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"idscan/internal/extract"
	"idscan/internal/logger"
	"idscan/internal/ocr"
	"idscan/internal/scan"
	"idscan/pkg/models"
)

// Scanner runs one scan. *scan.Service implements it.
type Scanner interface {
	Scan(ctx context.Context, input ocr.ScanInput) (*models.ScanReport, error)
	Engine() string
}

// Options configures the HTTP surface.
type Options struct {
	// MaxUploadBytes caps the uploaded image. The request body may exceed it
	// by multipartHeadroom. Defaults to ocr.MaxImageSizeBytes.
	MaxUploadBytes int64

	// AllowedOrigins lists CORS origins allowed to call the API.
	AllowedOrigins []string

	// DefaultLanguage is used when a request names no language.
	DefaultLanguage ocr.Language

	// Extractor serves /api/v1/extractions. Defaults to extract.New().
	Extractor *extract.Extractor
}

// multipartHeadroom is the body allowance for form fields and part headers.
const multipartHeadroom = 1 << 20

// Server routes HTTP requests to a Scanner.
type Server struct {
	scanner Scanner
	opts    Options
	router  chi.Router
	log     zerolog.Logger
}

// New builds the router.
func New(scanner Scanner, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = ocr.MaxImageSizeBytes
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = ocr.English
	}
	if opts.Extractor == nil {
		opts.Extractor = extract.New()
	}

	s := &Server{
		scanner: scanner,
		opts:    opts,
		log:     logger.WithComponent("server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scans", s.createScan)
		r.Post("/extractions", s.createExtraction)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully, letting in-flight scans finish for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().
			Str("addr", addr).
			Str("engine", s.scanner.Engine()).
			Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"engine": s.scanner.Engine(),
	})
}

// createScan handles POST /api/v1/scans.
func (s *Server) createScan(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+multipartHeadroom)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "Image is too large (maximum 20MB)")
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Missing image file in request")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "Failed to read uploaded image")
		return
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "Image is too large (maximum 20MB)")
		return
	}

	language := s.opts.DefaultLanguage
	if lang := r.FormValue("lang"); lang != "" {
		language = ocr.ParseLanguage(lang)
	}

	input, err := ocr.NewScanInput(data, language)
	if err != nil {
		log.Warn().Err(err).Int("size", len(data)).Msg("Rejected upload")
		switch {
		case errors.Is(err, ocr.ErrImageTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "Image is too large (maximum 20MB)")
		default:
			writeError(w, http.StatusBadRequest, CodeUnsupportedImage, "Please upload a JPG or PNG photo")
		}
		return
	}

	report, err := s.scanner.Scan(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("Scan failed")
		switch {
		case ocr.IsEngineUnavailable(err):
			writeError(w, http.StatusServiceUnavailable, CodeEngineUnavailable, "The OCR engine is not available on this server")
		default:
			writeError(w, http.StatusUnprocessableEntity, CodeRecognitionFailed, "Could not read this photo. Please try a different one")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

type extractionRequest struct {
	Transcript string `json:"transcript"`
}

// createExtraction handles POST /api/v1/extractions.
func (s *Server) createExtraction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	var req extractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, scan.ReportFromResult(s.opts.Extractor.Extract(req.Transcript)))
}
