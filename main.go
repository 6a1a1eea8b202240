package main

import (
	"log"

	"github.com/joho/godotenv"

	"idscan/cmd"
	"idscan/internal/config"
	"idscan/internal/logger"
)

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	// A broken configuration only falls back for logging. Commands report
	// the load error themselves.
	cfg, err := config.Load()
	logConfig := logger.DefaultConfig()
	if err == nil {
		logConfig = cfg.GetLoggerConfig()
	}
	if setupErr := logger.Setup(logConfig); setupErr != nil {
		log.Fatalf("Failed to initialize logger: %v", setupErr)
	}

	if err != nil {
		mainLog := logger.WithComponent("main")
		mainLog.Warn().Err(err).Msg("Could not load configuration")
	}

	cmd.SetConfig(cfg, err)
	cmd.Execute()
}
