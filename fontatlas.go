package rv32

import "fmt"

// glyphWidth and glyphHeight are the fixed CP437 cell dimensions of the
// bitmap font atlas.
const (
	glyphWidth  = 9
	glyphHeight = 16
)

// FontAtlas is the immutable, embedder-decoded grayscale bitmap the core
// blits glyphs from. Font atlas decoding itself (PNG, etc.) is left to
// the embedder; FontAtlas only validates and indexes bytes the embedder
// already decoded. See cmd/rvboot and tools/fontconv for the demo
// embedder-side decoders built on golang.org/x/image.
type FontAtlas struct {
	Pixels []byte // width*height, one byte per pixel, row-major
	Width  int
	Height int

	colsPerRow int
}

// NewFontAtlas validates a decoded grayscale bitmap and precomputes the
// glyph grid stride used by Glyph.
func NewFontAtlas(pixels []byte, width, height int) (*FontAtlas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rv32: font atlas: invalid dimensions %dx%d", width, height)
	}
	if len(pixels) < width*height {
		return nil, fmt.Errorf("rv32: font atlas: buffer too small: have %d bytes, need %d", len(pixels), width*height)
	}
	cols := width / glyphWidth
	if cols <= 0 {
		return nil, fmt.Errorf("rv32: font atlas: width %d too narrow for a %d-pixel glyph", width, glyphWidth)
	}
	return &FontAtlas{Pixels: pixels, Width: width, Height: height, colsPerRow: cols}, nil
}

// Glyph returns the top-left pixel offset of CP437 code point c's cell.
func (f *FontAtlas) Glyph(c byte) (x, y int) {
	col := int(c) % f.colsPerRow
	row := int(c) / f.colsPerRow
	return col * glyphWidth, row * glyphHeight
}

// At returns the grayscale value at pixel (x, y) within the atlas,
// or 0 if out of bounds.
func (f *FontAtlas) At(x, y int) byte {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Pixels[y*f.Width+x]
}
