package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the OpenAI-compatible chat-completions client. The Groq
// endpoint speaks the same dialect; BaseURL selects the backend.
// Everything here is fixed at construction and read-only afterwards.
type Config struct {
	APIKey    string        // if empty, falls back to env GROQ_API_KEY
	BaseURL   string        // default https://api.groq.com/openai/v1
	Model     string        // vision-capable model identifier
	Seed      int           // fixed seed for reproducible decoding
	MaxTokens int           // completion length bound
	Timeout   time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
