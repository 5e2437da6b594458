// Command rvboot is an Ebiten demo host for the rv32 session core: it
// owns the window, blits the framebuffer the core renders into, and
// turns keyboard/clipboard input into the borrowed keyboard queue
// Machine.Step reads from.
//
// The window/input/clipboard wiring and the raw-stdin companion mode
// are both built directly against rv32.Machine rather than a general
// video/terminal device interface, since this host only ever drives one
// kind of session.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	ximage "golang.org/x/image/draw"

	"github.com/tinycore-systems/rv32boot"
)

const (
	maxPasteBytes = 4096
	kbQueueCap    = 1024
)

type game struct {
	m   *rv32.Machine
	cfg rv32.Config

	width, height int
	fb            []byte
	img           *ebiten.Image

	kb    []byte
	kbLen int

	clipboardOnce sync.Once
	clipboardOK   bool
}

func (g *game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.pasteClipboard()
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r <= 0xFF {
			g.enqueue(byte(r))
		}
	}
	for key, seq := range specialKeySequences {
		if inpututil.IsKeyJustPressed(key) {
			for _, b := range seq {
				g.enqueue(b)
			}
		}
	}

	status, newLen := g.m.Step(g.fb, g.width, g.height, g.kb, g.kbLen)
	g.kbLen = newLen

	switch status {
	case rv32.StatusPowerOff:
		return ebiten.Termination
	case rv32.StatusRestart:
		g.kbLen = 0
		return g.m.Setup(g.cfg)
	}
	return nil
}

func (g *game) enqueue(b byte) {
	if g.kbLen < len(g.kb) {
		g.kb[g.kbLen] = b
		g.kbLen++
	}
}

var specialKeySequences = map[ebiten.Key][]byte{
	ebiten.KeyEnter:       {'\n'},
	ebiten.KeyNumpadEnter: {'\n'},
	ebiten.KeyBackspace:   {0x08},
	ebiten.KeyTab:         {'\t'},
	ebiten.KeyEscape:      {0x1B},
	ebiten.KeyArrowUp:     {0x1B, '[', 'A'},
	ebiten.KeyArrowDown:   {0x1B, '[', 'B'},
	ebiten.KeyArrowRight:  {0x1B, '[', 'C'},
	ebiten.KeyArrowLeft:   {0x1B, '[', 'D'},
	ebiten.KeyHome:        {0x1B, '[', 'H'},
	ebiten.KeyEnd:         {0x1B, '[', 'F'},
	ebiten.KeyDelete:      {0x1B, '[', '3', '~'},
}

func (g *game) pasteClipboard() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) > maxPasteBytes {
		data = data[:maxPasteBytes]
	}
	for _, b := range data {
		if b == '\r' {
			b = '\n'
		}
		g.enqueue(b)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.width, g.height)
	}
	g.img.WritePixels(g.fb)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

func main() {
	romPath := flag.String("rom", "", "path to the RISC-V kernel image")
	fontPath := flag.String("font", "", "path to a CP437 font atlas PNG")
	width := flag.Int("width", 640, "framebuffer width in pixels")
	height := flag.Int("height", 480, "framebuffer height in pixels")
	cmdline := flag.String("cmdline", "", "kernel command line")
	serial := flag.Bool("serial", false, "also read raw stdin as a companion keyboard source")
	flag.Parse()

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: %v\n", err)
		os.Exit(1)
	}

	font, err := loadFontAtlas(*fontPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: %v\n", err)
		os.Exit(1)
	}

	cfg := rv32.Config{
		Width:   *width,
		Height:  *height,
		ROM:     rom,
		Font:    font,
		CmdLine: *cmdline,
	}

	m := rv32.NewMachine()
	if err := m.Setup(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: setup: %v\n", err)
	}

	g := &game{
		m:      m,
		cfg:    cfg,
		width:  *width,
		height: *height,
		fb:     make([]byte, (*width)*(*height)*4),
		kb:     make([]byte, kbQueueCap),
	}

	if *serial {
		sc := newSerialCompanion(g)
		sc.Start()
		defer sc.Stop()
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("rvboot")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: %v\n", err)
	}
	m.Cleanup()
}

// loadFontAtlas decodes a PNG glyph atlas and flattens it to the
// grayscale byte buffer rv32.FontAtlas expects. PNG decode/color
// conversion lives here, at the embedder edge, per the core's stated
// non-goal of owning font decoding.
func loadFontAtlas(path string) (*rv32.FontAtlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	gray := image.NewGray(b)
	ximage.Draw(gray, b, src, b.Min, ximage.Src)

	pixels := make([]byte, b.Dx()*b.Dy())
	copy(pixels, gray.Pix)

	return rv32.NewFontAtlas(pixels, b.Dx(), b.Dy())
}
