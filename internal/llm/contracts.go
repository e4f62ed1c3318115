package llm

import "context"

// Schema selects which extraction contract the prompt encodes.
type Schema string

const (
	// SchemaSimple is the 7-key flat contract (vendor, buyer, number,
	// two dates, currency, total).
	SchemaSimple Schema = "simple"
	// SchemaFull is the nested contract (document, vendor, buyer, invoice,
	// line items, totals, payment, notes, raw text).
	SchemaFull Schema = "full"
)

// Part is one element of a request content list: either instruction text
// or an inline image reference.
type Part struct {
	Text     string
	ImageURL string
}

func (p Part) IsImage() bool { return p.ImageURL != "" }

// Request is one logical extraction request: instruction text followed by
// the document's pages in reading order, all in a single turn.
type Request struct {
	Parts []Part
}

// Generator is the capability boundary to the external vision-language
// model. A deterministic stub replaces it in tests; correctness is never
// tested against the live backend.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
