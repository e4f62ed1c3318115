package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/facturia/invoice-ocr/internal/common"
	"github.com/facturia/invoice-ocr/internal/extract"
	"github.com/facturia/invoice-ocr/internal/llm/openai"
	"github.com/facturia/invoice-ocr/internal/raster"
)

// One-shot extraction: renders a local invoice and prints the mapping.
func main() {
	schemaFlag := flag.String("schema", "full", "extraction schema: simple | full")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "extract [-schema simple|full] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("GROQ_API_KEY required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gateway := openai.NewClient(openai.Config{
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		Seed:      cfg.LLM.Seed,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	}, logger)

	rasterizer := raster.NewRasterizer(raster.Config{
		Pdftoppm: cfg.Raster.Pdftoppm,
		MaxPages: cfg.Raster.MaxPages,
	}, logger)

	extractor := extract.NewExtractor(extract.Config{
		MaxWidth: cfg.Raster.MaxWidth,
	}, rasterizer, gateway, logger)

	var (
		result map[string]any
		sum    extract.Summary
		err    error
	)
	if *schemaFlag == "simple" {
		result, sum, err = extractor.ExtractSimple(ctx, path)
	} else {
		result, sum, err = extractor.Extract(ctx, path)
	}
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	logger.Info("extraction OK",
		"path", path,
		"schema", sum.Schema,
		"pages", sum.Pages,
		"conforms", sum.Conforms,
		"duration_ms", sum.Duration.Milliseconds(),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
