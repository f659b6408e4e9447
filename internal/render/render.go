// Package render turns a counter value into a PNG image using a compiled-in
// pixel font. Rendering is deterministic: the same count and width always
// produce byte-identical output.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
)

// Pad pixels around the digits (1px on each side).
const borderPad = 1

// foreground is the lit pixel color, white on a transparent background so
// the embedding page can style behind it.
var foreground = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Raster is a rendered counter image.
type Raster struct {
	Width  int
	Height int
	img    *image.NRGBA
}

// Number renders a non-negative count into a raster. If the count has fewer
// digits than minWidth it is left-padded with the zero glyph, so the image
// keeps a constant size for small counts.
func Number(count uint64, minWidth int) *Raster {
	digits := strconv.FormatUint(count, 10)
	if pad := minWidth - len(digits); pad > 0 {
		buf := make([]byte, minWidth)
		for i := 0; i < pad; i++ {
			buf[i] = '0'
		}
		copy(buf[pad:], digits)
		digits = string(buf)
	}

	textW, textH := textSize(len(digits))
	width := 2*borderPad + textW
	height := 2*borderPad + textH

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	x := borderPad
	for i := 0; i < len(digits); i++ {
		if glyph := glyphForDigit(digits[i]); glyph != nil {
			blitGlyph(img, glyph, x, borderPad)
		}
		x += GlyphWidth + GlyphKern
	}

	return &Raster{Width: width, Height: height, img: img}
}

// blitGlyph copies one glyph matrix into the image at the given offset
func blitGlyph(img *image.NRGBA, glyph *[glyphSize]byte, x, y int) {
	for row := 0; row < GlyphHeight; row++ {
		for col := 0; col < GlyphWidth; col++ {
			if glyph[row*GlyphWidth+col] != 0 {
				img.SetNRGBA(x+col, y+row, foreground)
			}
		}
	}
}

// PNG encodes the raster as a PNG image
func (r *Raster) PNG() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(r.img.Pix) / 4)
	if err := png.Encode(&buf, r.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// At reports whether the pixel at (x, y) is lit. Used by tests.
func (r *Raster) At(x, y int) bool {
	return r.img.NRGBAAt(x, y).A != 0
}
