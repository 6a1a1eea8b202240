package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"idscan/internal/config"
	"idscan/internal/logger"
	"idscan/internal/ocr"
)

var version = "1.0.0"

// cfg and cfgErr hold the result of config.Load, as handed over by main.
var (
	cfg    *config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "idscan",
	Short: "idscan - read ID numbers and dates from identity document photos",
	Long: `idscan scans photographs of identity documents with OCR and pulls out
the fields people usually need: the nine-digit ID number and any dates
(DD/MM/YYYY or DD.MM.YYYY).

The OCR engine is pluggable. By default the local tesseract program is used;
Google Cloud Vision, Google Document AI and OpenAI vision models are available
with the right credentials.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("idscan executed without subcommand")

		fmt.Println("Hi! Ready to scan your document.")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// SetConfig hands the result of config.Load to the commands. A load error is
// reported by every command that needs configuration.
func SetConfig(c *config.Config, err error) {
	cfg, cfgErr = c, err
}

// loadedConfig returns a copy of the loaded configuration. Without SetConfig
// the defaults are used.
func loadedConfig() (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, fmt.Errorf("%w: invalid configuration: %w", ocr.ErrEngineUnavailable, cfgErr)
	}
	if cfg == nil {
		return *config.Default(), nil
	}
	return *cfg, nil
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}
