// Command fontconv converts a CP437 glyph-atlas PNG into the flat
// grayscale byte buffer rv32.FontAtlas expects at runtime, so that font
// decoding never has to happen inside the core itself.
//
// Usage: fontconv -in atlas.png -out atlas.bin
//
// PNG decode and flatten-to-raw-pixel-buffer follow the same shape as a
// Go-source byte-array font generator, but read a PNG file directly
// rather than emitting Go source, and flatten to grayscale rather than
// RGBA since the core's blitter only consumes a single intensity byte
// per pixel.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
)

func main() {
	in := flag.String("in", "", "input PNG glyph atlas")
	out := flag.String("out", "", "output raw grayscale file")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: fontconv -in atlas.png -out atlas.bin")
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fontconv: %v\n", err)
		os.Exit(1)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fontconv: decode: %v\n", err)
		os.Exit(1)
	}

	b := src.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, src, b.Min, draw.Src)

	if err := os.WriteFile(*out, gray.Pix, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "fontconv: write: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("fontconv: wrote %d bytes (%dx%d) to %s\n", len(gray.Pix), b.Dx(), b.Dy(), *out)
}
