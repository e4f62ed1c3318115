package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/facturia/invoice-ocr/internal/common"
	"github.com/facturia/invoice-ocr/internal/export"
	"github.com/facturia/invoice-ocr/internal/extract"
	"github.com/facturia/invoice-ocr/internal/history"
)

const apiVersion = "1.0.0"

// InvoiceExtractor is what the HTTP layer needs from the pipeline: a file
// path in, a mapping out. Tests substitute a stub.
type InvoiceExtractor interface {
	Extract(ctx context.Context, path string) (map[string]any, extract.Summary, error)
	ExtractSimple(ctx context.Context, path string) (map[string]any, extract.Summary, error)
}

// Service owns the HTTP surface: extraction routes, history, export.
type Service struct {
	cfg       common.ServerConfig
	extractor InvoiceExtractor
	store     *history.Store
	exporter  *export.Service
	logger    *slog.Logger
}

func NewService(cfg common.ServerConfig, extractor InvoiceExtractor, store *history.Store, exporter *export.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		extractor: extractor,
		store:     store,
		exporter:  exporter,
		logger:    logger,
	}
}

// Router wires middleware and routes. Extraction and history routes sit
// behind the bearer-token check; the banner stays public.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)

	r.Group(func(protected chi.Router) {
		protected.Use(s.requireToken)
		protected.Post("/extract-invoice", s.handleExtractPath(false))
		protected.Post("/extract-invoice-simple", s.handleExtractPath(true))
		protected.Post("/upload-invoice", s.handleUpload(false))
		protected.Post("/upload-invoice-simple", s.handleUpload(true))
		protected.Get("/extractions", s.handleListExtractions)
		protected.Get("/extractions/export", s.handleExportExtractions)
	})

	return r
}

func (s *Service) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Invoice OCR API",
		"version": apiVersion,
		"status":  "active",
	})
}

// record writes the audit row; a history failure never fails the response.
func (s *Service) record(ctx context.Context, sum extract.Summary, result map[string]any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.logger.Warn("history.marshal_failed", "req_id", sum.ID, "error", err)
		return
	}
	rec := history.Record{
		ID:         sum.ID,
		FileName:   sum.FileName,
		Format:     string(sum.Format),
		Schema:     string(sum.Schema),
		Pages:      sum.Pages,
		DurationMS: sum.Duration.Milliseconds(),
		Conforms:   sum.Conforms,
		ResultJSON: raw,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Add(ctx, rec); err != nil {
		s.logger.Warn("history.add_failed", "req_id", sum.ID, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, common.HTTPStatus(err), map[string]any{"detail": err.Error()})
}
