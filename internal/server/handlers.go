package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/facturia/invoice-ocr/internal/common"
	"github.com/facturia/invoice-ocr/internal/extract"
)

type filePathRequest struct {
	FilePath string `json:"file_path"`
}

// handleExtractPath serves extraction for a file already on local disk.
func (s *Service) handleExtractPath(simple bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req filePathRequest
		if err := decodeJSONBody(r, &req); err != nil || req.FilePath == "" {
			writeError(w, common.NewAppError("BAD_REQUEST", "file_path is required", common.ErrInvalidInput))
			return
		}

		result, sum, err := s.extract(r, req.FilePath, simple)
		if err != nil {
			writeError(w, err)
			return
		}
		s.record(r.Context(), sum, result)
		writeJSON(w, http.StatusOK, result)
	}
}

// handleUpload spools a multipart upload to a temp file, extracts, and
// removes the temp file regardless of outcome.
func (s *Service) handleUpload(simple bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, common.NewAppError("BAD_REQUEST", "multipart field 'file' is required", common.ErrInvalidInput))
			return
		}
		defer func() {
			if cerr := file.Close(); cerr != nil {
				s.logger.Warn("close upload", "error", cerr)
			}
		}()

		tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
		if err != nil {
			writeError(w, fmt.Errorf("create temp file: %w", err))
			return
		}
		tmpPath := tmp.Name()
		defer func() {
			if rerr := os.Remove(tmpPath); rerr != nil {
				s.logger.Warn("remove temp upload", "path", tmpPath, "error", rerr)
			}
		}()

		if _, err := tmp.ReadFrom(file); err != nil {
			_ = tmp.Close()
			writeError(w, fmt.Errorf("spool upload: %w", err))
			return
		}
		if err := tmp.Close(); err != nil {
			writeError(w, fmt.Errorf("flush upload: %w", err))
			return
		}

		result, sum, err := s.extract(r, tmpPath, simple)
		if err != nil {
			writeError(w, err)
			return
		}
		sum.FileName = filepath.Base(header.Filename)
		s.record(r.Context(), sum, result)
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Service) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, map[string]any{
			"id":          rec.ID,
			"file_name":   rec.FileName,
			"format":      rec.Format,
			"schema":      rec.Schema,
			"pages":       rec.Pages,
			"duration_ms": rec.DurationMS,
			"conforms":    rec.Conforms,
			"created_at":  rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"extractions": items})
}

func (s *Service) handleExportExtractions(w http.ResponseWriter, r *http.Request) {
	b, err := s.exporter.ExportExtractionsXLSX(r.Context(), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="extractions.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Service) extract(r *http.Request, path string, simple bool) (map[string]any, extract.Summary, error) {
	if simple {
		return s.extractor.ExtractSimple(r.Context(), path)
	}
	return s.extractor.Extract(r.Context(), path)
}

func decodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
