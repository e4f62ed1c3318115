package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/facturia/invoice-ocr/constants"
	"github.com/facturia/invoice-ocr/internal/llm"
	"github.com/facturia/invoice-ocr/internal/raster"
)

// Config holds extraction behavior fixed at construction.
type Config struct {
	MaxWidth int // page downsampling bound; default 1200
}

// Summary is per-extraction bookkeeping for observers (history, logs).
// The result mapping itself is returned separately and never retained.
type Summary struct {
	ID       uuid.UUID
	FileName string
	Format   constants.Format
	Schema   llm.Schema
	Pages    int
	Duration time.Duration
	Conforms bool
}

// Extractor runs the whole pipeline for one document: rasterize, normalize,
// build a single multi-page request, submit, recover. Synchronous and
// single-request-scoped; safe for concurrent use since all state is
// read-only configuration.
type Extractor struct {
	cfg        Config
	rasterizer *raster.Rasterizer
	generator  llm.Generator
	logger     *slog.Logger
}

func NewExtractor(cfg Config, rasterizer *raster.Rasterizer, generator llm.Generator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 1200
	}
	return &Extractor{cfg: cfg, rasterizer: rasterizer, generator: generator, logger: logger}
}

// ExtractSimple extracts the 7 essential invoice fields.
func (e *Extractor) ExtractSimple(ctx context.Context, path string) (map[string]any, Summary, error) {
	return e.run(ctx, path, llm.SchemaSimple)
}

// Extract extracts the complete nested invoice structure.
func (e *Extractor) Extract(ctx context.Context, path string) (map[string]any, Summary, error) {
	return e.run(ctx, path, llm.SchemaFull)
}

func (e *Extractor) run(ctx context.Context, path string, schema llm.Schema) (map[string]any, Summary, error) {
	id := uuid.New()
	start := time.Now()
	sum := Summary{ID: id, FileName: filepath.Base(path), Schema: schema}

	e.logger.Info("extract.start",
		"req_id", id, "path", path, "schema", schema,
	)

	rres, err := e.rasterizer.Rasterize(ctx, path)
	sum.Format = rres.SourceType
	if err != nil {
		e.logger.Error("extract.rasterize_failed", "req_id", id, "error", err)
		return nil, sum, err
	}
	sum.Pages = len(rres.Pages)

	pages, err := raster.EncodePages(rres.Pages, e.cfg.MaxWidth)
	if err != nil {
		e.logger.Error("extract.encode_failed", "req_id", id, "error", err)
		return nil, sum, fmt.Errorf("encode pages: %w", err)
	}

	req := llm.BuildRequest(llm.PromptFor(schema), pages)

	reply, err := e.generator.Generate(ctx, req)
	if err != nil {
		e.logger.Error("extract.generate_failed",
			"req_id", id, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, sum, fmt.Errorf("model generate: %w", err)
	}

	result := llm.RecoverJSON(reply)
	sum.Duration = time.Since(start)

	// Advisory shape check only; a nonconforming result still returns as-is.
	if _, degraded := result[llm.ErrorKey]; degraded {
		e.logger.Warn("extract.degraded_result", "req_id", id, "reply_bytes", len(reply))
	} else if err := llm.ValidateShape(llm.SchemaOf(schema), result); err != nil {
		e.logger.Warn("extract.shape_mismatch", "req_id", id, "error", err)
	} else {
		sum.Conforms = true
	}

	e.logger.Info("extract.ok",
		"req_id", id,
		"schema", schema,
		"pages", sum.Pages,
		"conforms", sum.Conforms,
		"elapsed_ms", sum.Duration.Milliseconds(),
	)
	return result, sum, nil
}
