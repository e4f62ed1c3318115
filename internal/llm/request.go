package llm

import "github.com/facturia/invoice-ocr/internal/raster"

// BuildRequest assembles one extraction request: the instruction text
// first, then one image part per page in document order. All pages ride in
// a single turn so the model can correlate continuation lines, repeated
// headers, and totals that only appear on the last page; splitting pages
// into separate calls would lose that context.
func BuildRequest(prompt string, pages []raster.EncodedPage) Request {
	parts := make([]Part, 0, len(pages)+1)
	parts = append(parts, Part{Text: prompt})
	for _, p := range pages {
		parts = append(parts, Part{ImageURL: p.DataURL()})
	}
	return Request{Parts: parts}
}
