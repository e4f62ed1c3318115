package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/facturia/invoice-ocr/internal/history"
)

func newTestService(t *testing.T) (*Service, *history.Store) {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store, nil), store
}

func readRows(t *testing.T, xlsx []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	return rows
}

func TestExportExtractionsXLSX_HeadersOnlyWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.ExportExtractionsXLSX(context.Background(), 0)
	require.NoError(t, err)

	rows := readRows(t, out)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"Date", "File", "Schema", "Pages", "Vendor",
		"Invoice Number", "Issue Date", "Currency", "Total", "Conforms",
	}, rows[0])
}

func TestExportExtractionsXLSX_SimpleRecord(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, history.Record{
		ID:       uuid.New(),
		FileName: "invoice.png",
		Format:   "IMAGE",
		Schema:   "simple",
		Pages:    1,
		Conforms: true,
		ResultJSON: []byte(`{
			"fournisseur": "ACME SARL",
			"numero_facture": "F-2024-017",
			"date_emission": "2024-03-01T00:00:00.000Z",
			"devise": "EUR",
			"total_ttc": "1 234,56"
		}`),
		CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}))

	out, err := svc.ExportExtractionsXLSX(ctx, 0)
	require.NoError(t, err)

	rows := readRows(t, out)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "2024-03-01 10:30", row[0])
	assert.Equal(t, "invoice.png", row[1])
	assert.Equal(t, "simple", row[2])
	assert.Equal(t, "1", row[3])
	assert.Equal(t, "ACME SARL", row[4])
	assert.Equal(t, "F-2024-017", row[5])
	assert.Equal(t, "2024-03-01T00:00:00.000Z", row[6])
	assert.Equal(t, "EUR", row[7])
	assert.Equal(t, "1 234,56", row[8])
	assert.Equal(t, "TRUE", row[9])
}

func TestExportExtractionsXLSX_FullRecordLiftsNestedFields(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, history.Record{
		ID:       uuid.New(),
		FileName: "invoice.pdf",
		Format:   "PDF",
		Schema:   "full",
		Pages:    2,
		ResultJSON: []byte(`{
			"fournisseur": {"nom": "ACME SARL"},
			"facture": {"numero": "F-2024-018", "date_emission": "2024-03-02T00:00:00.000Z", "devise": "EUR"},
			"totaux": {"total_ttc": "500,00"}
		}`),
		CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
	}))

	out, err := svc.ExportExtractionsXLSX(ctx, 0)
	require.NoError(t, err)

	rows := readRows(t, out)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "ACME SARL", row[4])
	assert.Equal(t, "F-2024-018", row[5])
	assert.Equal(t, "2024-03-02T00:00:00.000Z", row[6])
	assert.Equal(t, "EUR", row[7])
	assert.Equal(t, "500,00", row[8])
}

func TestExportExtractionsXLSX_DegradedResultFallsBackToSentinel(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, history.Record{
		ID:         uuid.New(),
		FileName:   "blurry.png",
		Format:     "IMAGE",
		Schema:     "simple",
		Pages:      1,
		ResultJSON: []byte(`{"erreur": "Parsing JSON échoué", "texte_brut": "illisible"}`),
		CreatedAt:  time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC),
	}))

	out, err := svc.ExportExtractionsXLSX(ctx, 0)
	require.NoError(t, err)

	rows := readRows(t, out)
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, notSpecified, row[4])
	assert.Equal(t, notSpecified, row[5])
	assert.Equal(t, notSpecified, row[8])
}
