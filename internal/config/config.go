package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"idscan/internal/logger"
)

// OCR engine names.
const (
	EngineTesseractCLI = "tesseract-cli"
	EngineTesseract    = "tesseract"
	EngineVision       = "vision"
	EngineDocumentAI   = "documentai"
	EngineOpenAI       = "openai"
)

// Engines lists every supported OCR engine name.
var Engines = []string{EngineTesseractCLI, EngineTesseract, EngineVision, EngineDocumentAI, EngineOpenAI}

type Config struct {
	OCR OCRConfig

	// ID number ranking strategy
	IDRanking string

	// HTTP server
	HTTPAddr           string
	MaxUploadBytes     int64 // image cap, multipart overhead excluded
	CORSAllowedOrigins []string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// OCRConfig holds the settings of every OCR engine. Only the fields of the
// selected Engine are required.
type OCRConfig struct {
	Engine   string
	Language string
	Timeout  time.Duration

	// Tesseract
	TesseractPath string
	TesseractPSM  int

	// Google Cloud
	GoogleCredentials          string
	GoogleCredentialsFile      string
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string
}

func Load() (*Config, error) {
	config := &Config{
		OCR: OCRConfig{
			Engine:                     getEnv("OCR_ENGINE", EngineTesseractCLI),
			Language:                   getEnv("OCR_LANGUAGE", "eng"),
			Timeout:                    time.Duration(getEnvInt("OCR_TIMEOUT_SECONDS", 60)) * time.Second,
			TesseractPath:              getEnv("TESSERACT_PATH", "tesseract"),
			TesseractPSM:               getEnvInt("TESSERACT_PSM", 3),
			GoogleCredentials:          getEnv("GOOGLE_CREDENTIALS", ""),
			GoogleCredentialsFile:      getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
			GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", "us"),
			DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
			DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
			OpenAIAPIKey:               getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:                getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		IDRanking:          getEnv("ID_RANKING", "first"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:      getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:          getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.OCR.Timeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT_SECONDS must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return c.OCR.Validate()
}

// Validate checks that the selected engine has everything it needs.
func (c OCRConfig) Validate() error {
	if strings.TrimSpace(c.Language) == "" {
		return fmt.Errorf("OCR_LANGUAGE must not be empty")
	}

	switch c.Engine {
	case EngineTesseractCLI, EngineTesseract:
		if c.TesseractPSM < 0 || c.TesseractPSM > 13 {
			return fmt.Errorf("TESSERACT_PSM must be between 0 and 13, got %d", c.TesseractPSM)
		}
	case EngineVision:
	case EngineDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the %s engine", c.Engine)
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the %s engine", c.Engine)
		}
	case EngineOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the %s engine", c.Engine)
		}
	default:
		return fmt.Errorf("unknown OCR_ENGINE %q (supported: %s)", c.Engine, strings.Join(Engines, ", "))
	}
	return nil
}

// Default returns the configuration used when the environment cannot be
// loaded: local tesseract, English, one minute timeout.
func Default() *Config {
	return &Config{
		OCR: OCRConfig{
			Engine:              EngineTesseractCLI,
			Language:            "eng",
			Timeout:             60 * time.Second,
			TesseractPath:       "tesseract",
			TesseractPSM:        3,
			GoogleCloudLocation: "us",
			OpenAIModel:         "gpt-4o-mini",
		},
		IDRanking:      "first",
		HTTPAddr:       ":8080",
		MaxUploadBytes: 20 << 20,
		LogLevel:       "info",
		LogFormat:      "console",
		LogTimeFormat:  time.RFC3339,
		LogOutput:      "stderr",
	}
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
