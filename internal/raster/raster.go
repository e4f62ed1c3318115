package raster

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/facturia/invoice-ocr/constants"
	"github.com/facturia/invoice-ocr/internal/common"
)

// Config holds rasterization settings.
type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	MaxPages int    // 0 = no limit
}

// Page is one raster page of a source document, in reading order.
type Page struct {
	Index  int
	Image  image.Image
	Width  int
	Height int
}

// Result carries the rendered pages plus bookkeeping for the caller's logs.
type Result struct {
	Pages      []Page
	SourceType constants.Format
	Duration   time.Duration
}

type Rasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRasterizer(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner; tests use this to stub pdftoppm.
func (r *Rasterizer) WithRunner(run Runner) *Rasterizer {
	r.runner = run
	return r
}

// Rasterize turns a source document into its ordered raster pages.
// A PDF renders one page per image through pdftoppm; anything else is
// treated as a single already-rasterized page.
func (r *Rasterizer) Rasterize(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: %s", common.ErrDocumentNotFound, path)
		}
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	format := constants.MapExtToFormat(ext)
	r.logger.Debug("rasterize start", "path", path, "ext", ext, "format", format)

	var (
		pages []Page
		err   error
	)
	switch format {
	case constants.PDF:
		pages, err = r.renderPDF(ctx, path)
	default:
		// Unknown extensions go through the image decoder; it reports the
		// corruption if the bytes are not a raster image.
		pages, err = r.decodeImage(path)
		format = constants.IMAGE
	}
	if err != nil {
		return Result{SourceType: format}, err
	}
	if len(pages) == 0 {
		return Result{SourceType: format}, fmt.Errorf("%w: no pages rendered from %s", common.ErrUnsupportedDocument, path)
	}

	res := Result{Pages: pages, SourceType: format, Duration: time.Since(start)}
	r.logger.Info("rasterize ok",
		"path", path,
		"format", format,
		"pages", len(pages),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (r *Rasterizer) decodeImage(path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Warn("close image file", "path", path, "error", cerr)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrUnsupportedDocument, path, err)
	}
	b := img.Bounds()
	return []Page{{Index: 0, Image: img, Width: b.Dx(), Height: b.Dy()}}, nil
}

func (r *Rasterizer) renderPDF(ctx context.Context, path string) ([]Page, error) {
	tmpDir, err := os.MkdirTemp("", "inv-pp-*")
	if err != nil {
		return nil, err
	}
	defer func(dir string) {
		if rerr := os.RemoveAll(dir); rerr != nil {
			r.logger.Warn("remove temp dir", "dir", dir, "error", rerr)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -png <in.pdf> <tmp/page>   (intrinsic/default resolution)
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: pdftoppm: %v: %s", common.ErrUnsupportedDocument, err, truncate(string(errb), 2<<10))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		matches = matches[:r.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pdftoppm produced no images", common.ErrUnsupportedDocument)
	}

	pages := make([]Page, 0, len(matches))
	for i, p := range matches {
		decoded, err := r.decodeImage(p)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		pg := decoded[0]
		pg.Index = i
		pages = append(pages, pg)
	}
	return pages, nil
}
