package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"idscan/internal/extract"
	"idscan/internal/logger"
	"idscan/internal/ocr"
	"idscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scan API over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /health
  POST /api/v1/scans        multipart form: image (JPG/PNG), lang
  POST /api/v1/extractions  JSON: {"transcript": "..."}

The engine and its credentials come from the environment (OCR_ENGINE etc.).`,
	Example: `  idscan serve --addr :8080 --engine vision`,
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from HTTP_ADDR)")
	serveCmd.Flags().String("engine", "", "OCR engine (default from OCR_ENGINE)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	c, err := loadedConfig()
	if err != nil {
		return handleScanError(err, log)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		c.HTTPAddr = addr
	}
	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		c.OCR.Engine = engine
	}

	ranker, err := extract.ParseRanker(c.IDRanking)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithSignals(log)
	defer cancel()

	svc, err := newScanService(ctx, c.OCR, ranker, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	srv := server.New(svc, server.Options{
		MaxUploadBytes:  c.MaxUploadBytes,
		AllowedOrigins:  c.CORSAllowedOrigins,
		DefaultLanguage: ocr.ParseLanguage(c.OCR.Language),
		Extractor:       extract.New(extract.WithRanker(ranker)),
	})

	return srv.ListenAndServe(ctx, c.HTTPAddr, 30*time.Second)
}
