package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"idscan/internal/config"
	"idscan/internal/extract"
	"idscan/internal/logger"
	"idscan/internal/ocr"
	"idscan/internal/scan"
	"idscan/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Scan an ID photo and extract the ID number and dates",
	Long: `Run OCR over a JPG or PNG photo of an identity document, then look for a
nine-digit ID number and for dates written as DD/MM/YYYY or DD.MM.YYYY.

Engines (--engine or OCR_ENGINE):
  tesseract-cli  local tesseract program (default)
  tesseract      in-process libtesseract, binary built with -tags tesseract
  vision         Google Cloud Vision (GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS)
  documentai     Google Document AI (also GOOGLE_CLOUD_PROJECT, DOCUMENT_AI_PROCESSOR_ID)
  openai         OpenAI vision model (OPENAI_API_KEY)

Hebrew documents need the Hebrew language data installed for tesseract and
--lang heb+eng.`,
	Example: `  # Scan with the local tesseract program
  idscan scan id-front.jpg

  # Hebrew and English text
  idscan scan id-front.jpg --lang heb+eng

  # Use Google Cloud Vision and write JSON to a file
  idscan scan id-front.jpg --engine vision --json -o result.json

  # Prefer the ID number that appears most often
  idscan scan id-front.jpg --id-ranking most-frequent`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("engine", "", "OCR engine (default from OCR_ENGINE, else tesseract-cli)")
	scanCmd.Flags().StringP("lang", "l", "", "Language hint, e.g. eng or heb+eng (default from OCR_LANGUAGE)")
	scanCmd.Flags().Int("timeout", 0, "Recognition timeout in seconds (default from OCR_TIMEOUT_SECONDS)")
	scanCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	scanCmd.Flags().String("id-ranking", "", "ID number choice when several match: first or most-frequent")
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scan")

	engine, _ := cmd.Flags().GetString("engine")
	lang, _ := cmd.Flags().GetString("lang")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ranking, _ := cmd.Flags().GetString("id-ranking")

	c, err := loadedConfig()
	if err != nil {
		return handleScanError(err, log)
	}
	ocrCfg := c.OCR
	if engine != "" {
		ocrCfg.Engine = engine
	}
	if lang != "" {
		ocrCfg.Language = lang
	}
	if timeoutSecs > 0 {
		ocrCfg.Timeout = time.Duration(timeoutSecs) * time.Second
	}
	if ranking == "" {
		ranking = c.IDRanking
	}

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("engine", ocrCfg.Engine).
		Str("language", ocrCfg.Language).
		Dur("timeout", ocrCfg.Timeout).
		Bool("json", jsonOutput).
		Msg("Starting scan")

	ranker, err := extract.ParseRanker(ranking)
	if err != nil {
		return err
	}

	if err := validateImageFile(imagePath, log); err != nil {
		return err
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	input, err := ocr.NewScanInput(data, ocr.ParseLanguage(ocrCfg.Language))
	if err != nil {
		return handleScanError(err, log)
	}

	ctx, cancel := createContextWithSignals(log)
	defer cancel()

	svc, err := newScanService(ctx, ocrCfg, ranker, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	report, err := svc.Scan(ctx, input)
	if err != nil {
		return handleScanError(err, log)
	}

	return outputReport(report, outputPath, jsonOutput, log)
}

// validateImageFile checks that the path is a readable, non-empty image file
// within the upload limit.
func validateImageFile(path string, log zerolog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().Str("file", path).Msg("Image file not found")
			return fmt.Errorf("image file not found: %s", path)
		}
		if os.IsPermission(err) {
			log.Error().Str("file", path).Msg("Permission denied accessing image file")
			return fmt.Errorf("permission denied accessing image file: %s", path)
		}
		return fmt.Errorf("error accessing image file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
	default:
		log.Warn().Str("file", path).Msg("File does not have a .jpg, .jpeg or .png extension")
	}

	if info.Size() == 0 {
		return fmt.Errorf("image file is empty: %s", path)
	}
	if info.Size() > ocr.MaxImageSizeBytes {
		log.Error().
			Str("file", path).
			Int64("size", info.Size()).
			Int64("max_size", ocr.MaxImageSizeBytes).
			Msg("Image exceeds maximum size limit")
		return fmt.Errorf("image too large (%d bytes). Maximum size is %d bytes (20MB)",
			info.Size(), ocr.MaxImageSizeBytes)
	}
	return nil
}

// createContextWithSignals returns a context canceled on SIGINT or SIGTERM.
func createContextWithSignals(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func newScanService(ctx context.Context, ocrCfg config.OCRConfig, ranker extract.Ranker, log zerolog.Logger) (*scan.Service, error) {
	recognizer, err := ocr.NewRecognizer(ctx, ocrCfg)
	if err != nil {
		return nil, handleScanError(err, log)
	}

	log.Debug().Str("engine", recognizer.Name()).Msg("OCR engine ready")
	return scan.NewService(recognizer,
		scan.WithTimeout(ocrCfg.Timeout),
		scan.WithExtractor(extract.New(extract.WithRanker(ranker))),
	), nil
}

func outputReport(report *models.ScanReport, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var data []byte
	if jsonOutput {
		var err error
		data, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		data = append(data, '\n')
	} else {
		var b strings.Builder
		writeReportText(&b, report)
		data = []byte(b.String())
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			log.Error().Err(err).Str("output_file", outputPath).Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Int("bytes", len(data)).Msg("Scan results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeReportText prints the report the way a person reads an ID scan: raw
// text first, then the detected details.
func writeReportText(w io.Writer, report *models.ScanReport) {
	if report.NoTextDetected {
		fmt.Fprintln(w, "Could not detect any clear text. Please try a clearer photo.")
		return
	}

	fmt.Fprintln(w, "Scan Complete!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Raw Text ===")
	fmt.Fprintln(w, strings.TrimRight(report.Transcript, "\n"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Detected Details ===")

	if report.HasIDNumber() {
		fmt.Fprintf(w, "ID Number: %s\n", report.IDNumber)
	} else {
		fmt.Fprintln(w, "No 9-digit ID number found.")
	}

	if len(report.Dates) > 0 {
		fmt.Fprintln(w, "Dates found:")
		for _, d := range report.Dates {
			fmt.Fprintf(w, "  %s\n", d)
		}
	} else {
		fmt.Fprintln(w, "No dates detected.")
	}
}
