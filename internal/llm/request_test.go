package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturia/invoice-ocr/internal/raster"
)

func encodedPages(n int) []raster.EncodedPage {
	pages := make([]raster.EncodedPage, n)
	for i := range pages {
		pages[i] = raster.EncodedPage{Index: i, Base64: string(rune('A' + i))}
	}
	return pages
}

func TestBuildRequest_InstructionFirst(t *testing.T) {
	req := BuildRequest(SimpleInvoicePrompt, encodedPages(2))

	require.Len(t, req.Parts, 3)
	assert.False(t, req.Parts[0].IsImage())
	assert.Equal(t, SimpleInvoicePrompt, req.Parts[0].Text)
}

func TestBuildRequest_PreservesPageOrder(t *testing.T) {
	pages := encodedPages(5)
	req := BuildRequest(FullInvoicePrompt, pages)

	require.Len(t, req.Parts, 6)
	for i, p := range pages {
		part := req.Parts[i+1]
		assert.True(t, part.IsImage())
		assert.Equal(t, p.DataURL(), part.ImageURL,
			"page %d must appear at content position %d", i, i+1)
	}
}

func TestBuildRequest_NoPages(t *testing.T) {
	req := BuildRequest(SimpleInvoicePrompt, nil)
	require.Len(t, req.Parts, 1)
	assert.False(t, req.Parts[0].IsImage())
}

func TestPromptFor(t *testing.T) {
	assert.Equal(t, SimpleInvoicePrompt, PromptFor(SchemaSimple))
	assert.Equal(t, FullInvoicePrompt, PromptFor(SchemaFull))
	assert.Equal(t, FullInvoicePrompt, PromptFor(Schema("unknown")))
}

func TestPrompts_ContainContractRules(t *testing.T) {
	for _, p := range []string{SimpleInvoicePrompt, FullInvoicePrompt} {
		assert.Contains(t, p, `"Non spécifié"`)
		assert.Contains(t, p, "YYYY-MM-DDT00:00:00.000Z")
		assert.True(t, strings.HasSuffix(p, "Fournis UNIQUEMENT le JSON, sans texte additionnel."),
			"prompt must end with the JSON-only instruction")
	}
}

func TestSimplePrompt_SevenFlatKeys(t *testing.T) {
	keys := []string{
		"fournisseur", "acheteur", "numero_facture",
		"date_emission", "date_echeance", "devise", "total_ttc",
	}
	for _, k := range keys {
		assert.Contains(t, SimpleInvoicePrompt, `"`+k+`"`)
	}
}

func TestFullPrompt_NestedSections(t *testing.T) {
	sections := []string{
		"document", "fournisseur", "acheteur", "facture",
		"lignes", "totaux", "paiement", "notes", "texte_brut_complet",
	}
	for _, k := range sections {
		assert.Contains(t, FullInvoicePrompt, `"`+k+`"`)
	}
}
