package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facturia/invoice-ocr/internal/common"
	"github.com/facturia/invoice-ocr/internal/export"
	"github.com/facturia/invoice-ocr/internal/extract"
	"github.com/facturia/invoice-ocr/internal/history"
	"github.com/facturia/invoice-ocr/internal/llm/openai"
	"github.com/facturia/invoice-ocr/internal/raster"
	"github.com/facturia/invoice-ocr/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(ctx, cfg.History.Path, logger)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("close history store", "error", cerr)
		}
	}()

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

	exporter := export.NewService(store, logger)
	svc := server.NewService(cfg.Server, extractor, store, exporter, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: svc.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "model", cfg.LLM.Model)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
