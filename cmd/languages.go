package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"idscan/internal/logger"
	"idscan/internal/ocr"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List OCR engines and installed tesseract languages",
	Args:  cobra.NoArgs,
	RunE:  runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("languages")
	out := cmd.OutOrStdout()

	writeEngines(out, ocr.Engines())

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Language hints:")
	for _, l := range ocr.KnownLanguages {
		fmt.Fprintf(out, "  %s\n", l)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Tesseract languages:")

	c, err := loadedConfig()
	if err != nil {
		return handleScanError(err, log)
	}

	t, err := ocr.NewTesseractCLIRecognizer(c.OCR.TesseractPath, c.OCR.TesseractPSM)
	if err != nil {
		log.Warn().Err(err).Msg("tesseract not available")
		fmt.Fprintln(out, "  (tesseract not installed)")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	langs, err := t.AvailableLanguages(ctx)
	if err != nil {
		return handleScanError(err, log)
	}
	for _, l := range langs {
		fmt.Fprintf(out, "  %s\n", l)
	}
	return nil
}

func writeEngines(w io.Writer, engines []ocr.EngineInfo) {
	fmt.Fprintln(w, "OCR engines:")
	for _, e := range engines {
		status := ""
		if !e.Available {
			status = " (not built in)"
		}
		fmt.Fprintf(w, "  %-14s %s%s\n", e.Name, e.Description, status)
	}
}
