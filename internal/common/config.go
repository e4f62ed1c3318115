package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Raster  RasterConfig
	History HistoryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	AccessToken string
	FrontendURL string
}

// LLMConfig holds model gateway configuration
type LLMConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Seed      int
	MaxTokens int
	Timeout   time.Duration
}

// RasterConfig holds rasterization and normalization configuration
type RasterConfig struct {
	Pdftoppm string
	MaxWidth int
	MaxPages int
}

// HistoryConfig holds the extraction history store configuration
type HistoryConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("HTTP_ADDR", ":8000"),
			AccessToken: getEnv("BACKEND_ACCESS_TOKEN", ""),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		LLM: LLMConfig{
			APIKey:    getEnv("GROQ_API_KEY", ""),
			BaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:     getEnv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
			Seed:      getEnvAsInt("GROQ_SEED", 1234),
			MaxTokens: getEnvAsInt("GROQ_MAX_TOKENS", 2048),
			Timeout:   getEnvAsDuration("GROQ_TIMEOUT", 90*time.Second),
		},
		Raster: RasterConfig{
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
			MaxWidth: getEnvAsInt("IMAGE_MAX_WIDTH", 1200),
			MaxPages: getEnvAsInt("MAX_PAGES", 0),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", "./invoice-ocr.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GROQ_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.AccessToken == "" {
		return NewAppError("CONFIG_ERROR", "BACKEND_ACCESS_TOKEN is required", ErrInvalidInput)
	}
	if c.Raster.MaxWidth <= 0 {
		return NewAppError("CONFIG_ERROR", "IMAGE_MAX_WIDTH must be positive", ErrInvalidInput)
	}
	return nil
}
