package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/facturia/invoice-ocr/internal/history"
)

// Service is a tiny façade over the history store that produces XLSX bytes
// for exports.
type Service struct {
	store  *history.Store
	logger *slog.Logger
}

func NewService(store *history.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// The sentinel used in prompts when a field cannot be read.
const notSpecified = "Non spécifié"

// ExportExtractionsXLSX returns an XLSX workbook (as bytes) with the most
// recent extractions. The essential fields are lifted from each stored
// result; full-schema results nest them, simple-schema results are flat.
func (s *Service) ExportExtractionsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"File",
		"Schema",
		"Pages",
		"Vendor",
		"Invoice Number",
		"Issue Date",
		"Currency",
		"Total",
		"Conforms",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		fields := essentialFields(r)

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.CreatedAt.Format("2006-01-02 15:04"))
		write(2, r.FileName)
		write(3, r.Schema)
		write(4, r.Pages)
		write(5, fields.vendor)
		write(6, fields.number)
		write(7, fields.issueDate)
		write(8, fields.currency)
		write(9, fields.total)
		write(10, r.Conforms)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type essentials struct {
	vendor    string
	number    string
	issueDate string
	currency  string
	total     string
}

func essentialFields(rec history.Record) essentials {
	out := essentials{
		vendor:    notSpecified,
		number:    notSpecified,
		issueDate: notSpecified,
		currency:  notSpecified,
		total:     notSpecified,
	}

	var m map[string]any
	if err := json.Unmarshal(rec.ResultJSON, &m); err != nil {
		return out
	}

	if rec.Schema == "simple" {
		setIfString(&out.vendor, m["fournisseur"])
		setIfString(&out.number, m["numero_facture"])
		setIfString(&out.issueDate, m["date_emission"])
		setIfString(&out.currency, m["devise"])
		setIfString(&out.total, m["total_ttc"])
		return out
	}

	if v, ok := m["fournisseur"].(map[string]any); ok {
		setIfString(&out.vendor, v["nom"])
	}
	if fac, ok := m["facture"].(map[string]any); ok {
		setIfString(&out.number, fac["numero"])
		setIfString(&out.issueDate, fac["date_emission"])
		setIfString(&out.currency, fac["devise"])
	}
	if tot, ok := m["totaux"].(map[string]any); ok {
		setIfString(&out.total, tot["total_ttc"])
	}
	return out
}

func setIfString(dst *string, v any) {
	if s, ok := v.(string); ok && s != "" {
		*dst = s
	}
}
