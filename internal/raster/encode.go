package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// EncodedPage is the transport-safe form of a Page: a lossless PNG,
// base64-encoded, never wider than the configured maximum.
type EncodedPage struct {
	Index  int
	Width  int
	Height int
	Base64 string
}

// DataURL renders the page as an inline data URI for chat-completion
// image parts.
func (p EncodedPage) DataURL() string {
	return "data:image/png;base64," + p.Base64
}

// EncodePage downsamples a page to maxWidth (aspect ratio preserved) and
// serializes it as base64 PNG. Pages already within bounds are encoded
// unchanged. Catmull-Rom resampling is deliberate: the model's character
// recognition degrades visibly with nearest-neighbor scaling.
func EncodePage(page Page, maxWidth int) (EncodedPage, error) {
	img := page.Image
	w, h := page.Width, page.Height

	if maxWidth > 0 && w > maxWidth {
		ratio := float64(maxWidth) / float64(w)
		nh := int(float64(h)*ratio + 0.5)
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, nh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		img, w, h = dst, maxWidth, nh
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return EncodedPage{}, fmt.Errorf("encode png: %w", err)
	}
	return EncodedPage{
		Index:  page.Index,
		Width:  w,
		Height: h,
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// EncodePages encodes all pages in document order.
func EncodePages(pages []Page, maxWidth int) ([]EncodedPage, error) {
	out := make([]EncodedPage, 0, len(pages))
	for _, p := range pages {
		enc, err := EncodePage(p, maxWidth)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p.Index, err)
		}
		out = append(out, enc)
	}
	return out, nil
}
