package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"idscan/internal/extract"
	"idscan/internal/logger"
	"idscan/internal/scan"
)

var extractCmd = &cobra.Command{
	Use:   "extract [transcript-file|-]",
	Short: "Extract the ID number and dates from text, without OCR",
	Long: `Run only the field extraction over an existing transcript, read from a
file or from stdin ("-" or no argument).`,
	Example: `  # From a file saved by another OCR tool
  idscan extract transcript.txt

  # From stdin, as JSON
  echo "ID 123456789 born 01/02/1990" | idscan extract --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("json", false, "Output as JSON")
	extractCmd.Flags().String("id-ranking", "", "ID number choice when several match: first or most-frequent")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ranking, _ := cmd.Flags().GetString("id-ranking")

	c, err := loadedConfig()
	if err != nil {
		return handleScanError(err, log)
	}
	if ranking == "" {
		ranking = c.IDRanking
	}

	ranker, err := extract.ParseRanker(ranking)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open transcript: %w", err)
		}
		defer f.Close()
		in = f
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	result := extract.New(extract.WithRanker(ranker)).Extract(string(text))
	log.Debug().
		Int("text_length", len(text)).
		Str("outcome", string(result.Outcome())).
		Msg("Extraction finished")

	return outputReport(scan.ReportFromResult(result), outputPath, jsonOutput, log)
}
