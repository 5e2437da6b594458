// framebuffer.go - glyph blit, clear/scroll and cursor blink over a
// borrowed RGBA8 framebuffer.
//
// Adapted from a scrollback line buffer down to a fixed-size screen with
// direct pixel block-copy scrolling. Glyph blits and clears skip any pixel
// that falls outside the framebuffer, so an off-screen cursor draws
// nothing.
package rv32

// cursorGlyph is the CP437 solid block used to render the blinking cursor.
const cursorGlyph = 0xDB

// blinkCyclePeriod is the number of Step calls per on/off blink cycle;
// the cursor is solid for the first half and blank for the second.
const blinkCyclePeriod = 30

// ClearScreen fills the entire framebuffer with opaque black.
func (t *Terminal) ClearScreen() {
	for i := 0; i+3 < len(t.fb); i += 4 {
		t.fb[i+0] = 0
		t.fb[i+1] = 0
		t.fb[i+2] = 0
		t.fb[i+3] = 255
	}
}

// DrawChar blits glyph code at pixel (x, y).
func (t *Terminal) DrawChar(x, y int, code byte) {
	if t.font == nil {
		return
	}
	gx, gy := t.font.Glyph(code)
	stride := t.width * 4
	for yo := 0; yo < glyphHeight; yo++ {
		py := y + yo
		if py < 0 || py >= t.height {
			continue
		}
		row := py * stride
		for xo := 0; xo < glyphWidth; xo++ {
			px := x + xo
			if px < 0 || px >= t.width {
				continue
			}
			v := t.font.At(gx+xo, gy+yo)
			off := row + px*4
			t.fb[off+0] = v
			t.fb[off+1] = v
			t.fb[off+2] = v
			t.fb[off+3] = 255
		}
	}
}

// ScrollUp shifts the screen upward by n character rows, blanking the
// newly exposed rows at the bottom, and moves the cursor up to match.
func (t *Terminal) ScrollUp(n int) {
	scrollPx := n * glyphHeight
	stride := t.width * 4
	if scrollPx >= t.height {
		t.ClearScreen()
	} else {
		moveBytes := (t.height - scrollPx) * stride
		copy(t.fb[0:moveBytes], t.fb[scrollPx*stride:scrollPx*stride+moveBytes])
		t.fillRows(t.height-scrollPx, t.height)
	}
	t.cursorY -= scrollPx
}

// ScrollDown mirrors ScrollUp: shifts the screen downward by n character
// rows, blanking the newly exposed rows at the top. The reference this
// behaviour is modeled on leaves cursor_y unchanged here, unlike
// ScrollUp; that asymmetry is preserved rather than guessed away.
func (t *Terminal) ScrollDown(n int) {
	scrollPx := n * glyphHeight
	stride := t.width * 4
	if scrollPx >= t.height {
		t.ClearScreen()
		return
	}
	moveBytes := (t.height - scrollPx) * stride
	copy(t.fb[scrollPx*stride:scrollPx*stride+moveBytes], t.fb[0:moveBytes])
	t.fillRows(0, scrollPx)
}

// ClearFromCursorRight blanks from the cursor to the end of its row.
func (t *Terminal) ClearFromCursorRight() {
	t.fillRect(t.cursorX, t.cursorY, t.width, t.cursorY+glyphHeight)
}

// ClearFromCursorLeft blanks from the start of the cursor's row to the
// cursor.
func (t *Terminal) ClearFromCursorLeft() {
	t.fillRect(0, t.cursorY, t.cursorX+glyphWidth, t.cursorY+glyphHeight)
}

// ClearFromCursorDown blanks from the cursor's row to the bottom of the
// screen.
func (t *Terminal) ClearFromCursorDown() {
	t.ClearFromCursorRight()
	t.fillRows(t.cursorY+glyphHeight, t.height)
}

// ClearFromCursorUp blanks from the top of the screen to the cursor's row.
func (t *Terminal) ClearFromCursorUp() {
	t.ClearFromCursorLeft()
	t.fillRows(0, t.cursorY)
}

// ClearLine blanks the entire character row containing pixel row y.
func (t *Terminal) ClearLine(y int) {
	t.fillRect(0, y, t.width, y+glyphHeight)
}

func (t *Terminal) fillRows(yStart, yEnd int) {
	t.fillRect(0, yStart, t.width, yEnd)
}

func (t *Terminal) fillRect(x0, y0, x1, y1 int) {
	stride := t.width * 4
	for y := y0; y < y1; y++ {
		if y < 0 || y >= t.height {
			continue
		}
		row := y * stride
		for x := x0; x < x1; x++ {
			if x < 0 || x >= t.width {
				continue
			}
			off := row + x*4
			t.fb[off+0] = 0
			t.fb[off+1] = 0
			t.fb[off+2] = 0
			t.fb[off+3] = 255
		}
	}
}

// drawCursor renders the blinking cursor glyph for step index n: solid for
// the first half of blinkCyclePeriod, blank for the second half.
func (t *Terminal) drawCursor(n int) {
	if n%blinkCyclePeriod < blinkCyclePeriod/2 {
		t.DrawChar(t.cursorX, t.cursorY, cursorGlyph)
	} else {
		t.DrawChar(t.cursorX, t.cursorY, ' ')
	}
}
