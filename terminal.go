// terminal.go - VT100/VT52-style escape state machine over UART TX bytes.
//
// Combines character-stream handling and pixel rendering in one type,
// generalized from a small fixed set of control characters to a full
// VT100/VT52 escape-sequence state machine.
package rv32

type vtState int

const (
	vtNormal vtState = iota
	vtEsc
	vtEscBracket
	vtEscOpenParen
	vtEscCloseParen
	vtEscPound
	vtEscFive
	vtEscSix
	vtEscBracketNum
	vtEscBracketNumSemi
	vtEscBracketNumSemiNum
	vtEscBracketQuestion
	vtEscBracketQuestionNum
	vtEscBracketSemi
)

// Terminal owns the VT parser state and cursor position, and renders onto
// a borrowed RGBA8 framebuffer (see framebuffer.go) using a fixed 9x16
// glyph cell.
type Terminal struct {
	font *FontAtlas

	// fb, width, height and the derived cols/rows are rebound at the start
	// of every Step; Step drops fb before returning, so the borrowed
	// buffer is not retained past the call that bound it.
	fb     []byte
	width  int
	height int
	cols   int
	rows   int

	cursorX, cursorY int // pixel coordinates
	backupX, backupY int

	state vtState
	numA  int
	numB  int
}

// NewTerminal constructs a parser/renderer bound to the given font atlas.
// Screen dimensions are established on the first bindFramebuffer call.
func NewTerminal(font *FontAtlas) *Terminal {
	return &Terminal{font: font}
}

// bindFramebuffer rebinds the borrowed RGBA8 buffer for one Step call and
// recomputes the column/row grid if the dimensions changed.
func (t *Terminal) bindFramebuffer(fb []byte, width, height int) {
	t.fb = fb
	if width != t.width || height != t.height {
		t.width = width
		t.height = height
		t.cols = width / glyphWidth
		t.rows = height / glyphHeight
	}
}

// WriteByte feeds one UART TX byte through the parser. Unrecognised
// terminators silently return to Normal; the parser never reports an
// error to its caller.
func (t *Terminal) WriteByte(b byte) {
	switch t.state {
	case vtNormal:
		t.writeNormal(b)
	case vtEsc:
		t.writeEsc(b)
	case vtEscBracket:
		t.writeEscBracket(b)
	case vtEscOpenParen, vtEscCloseParen, vtEscPound, vtEscFive, vtEscSix:
		// Each of these consumes exactly one selector/parameter byte and
		// returns to Normal, regardless of its value.
		t.state = vtNormal
	case vtEscBracketNum:
		t.writeEscBracketNum(b)
	case vtEscBracketNumSemi:
		t.writeEscBracketNumSemi(b, false)
	case vtEscBracketNumSemiNum:
		t.writeEscBracketNumSemi(b, true)
	case vtEscBracketQuestion:
		t.writeEscBracketQuestion(b)
	case vtEscBracketQuestionNum:
		t.writeEscBracketQuestionNum(b)
	case vtEscBracketSemi:
		t.writeEscBracketSemi(b)
	default:
		t.state = vtNormal
	}
}

// WriteString feeds each byte of s through WriteByte, in order. Used by the
// debug-CSR print paths (§4.2).
func (t *Terminal) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		t.WriteByte(s[i])
	}
}

func (t *Terminal) writeNormal(b byte) {
	switch b {
	case 0x1B: // ESC
		t.state = vtEsc
	case '\n', '\r':
		t.newLine()
	case 0x08: // backspace
		if t.cursorX > 0 {
			t.cursorX -= glyphWidth
		}
	case 0x07: // bell
		// absorbed
	default:
		t.DrawChar(t.cursorX, t.cursorY, b)
		t.advanceCursor()
	}
}

// advanceCursor moves the cursor one cell right, wrapping to the next row
// and scrolling when the screen is full.
func (t *Terminal) advanceCursor() {
	t.cursorX += glyphWidth
	if t.cursorX+glyphWidth > t.width {
		t.cursorX = 0
		t.cursorY += glyphHeight
	}
	if t.cursorY+glyphHeight > t.height {
		t.ScrollUp(1)
	}
}

func (t *Terminal) newLine() {
	t.cursorX = 0
	t.cursorY += glyphHeight
	if t.cursorY+glyphHeight > t.height {
		t.ScrollUp(1)
	}
}

func (t *Terminal) homeCursor() {
	t.cursorX = 0
	t.cursorY = 0
}

func (t *Terminal) resetTerminal() {
	t.ClearScreen()
	t.cursorX, t.cursorY = 0, 0
	t.backupX, t.backupY = 0, 0
}

func (t *Terminal) writeEsc(b byte) {
	switch b {
	case '[':
		t.state = vtEscBracket
	case '(':
		t.state = vtEscOpenParen
	case ')':
		t.state = vtEscCloseParen
	case '#':
		t.state = vtEscPound
	case '5':
		t.state = vtEscFive
	case '6':
		t.state = vtEscSix
	case '=', '>', 'N', 'O', '<':
		t.state = vtNormal
	case 'D', 'E':
		t.ScrollUp(1)
		t.state = vtNormal
	case 'M':
		t.ScrollDown(1)
		t.state = vtNormal
	case '7':
		t.backupX, t.backupY = t.cursorX, t.cursorY
		t.state = vtNormal
	case '8':
		t.cursorX, t.cursorY = t.backupX, t.backupY
		t.state = vtNormal
	case 'c':
		t.resetTerminal()
		t.state = vtNormal
	default:
		t.state = vtNormal
	}
}

func (t *Terminal) writeEscBracket(b byte) {
	switch {
	case b == '?':
		t.state = vtEscBracketQuestion
	case b == ';':
		t.numB = 0
		t.state = vtEscBracketSemi
	case b == 'H' || b == 'f':
		t.homeCursor()
		t.state = vtNormal
	case b == 'K':
		t.ClearFromCursorRight()
		t.state = vtNormal
	case b == 'J':
		t.ClearFromCursorDown()
		t.state = vtNormal
	case b == 'm' || b == 'g' || b == 'c':
		t.state = vtNormal
	case b >= '0' && b <= '9':
		t.numA = int(b - '0')
		t.state = vtEscBracketNum
	default:
		t.state = vtNormal
	}
}

func (t *Terminal) writeEscBracketNum(b byte) {
	switch {
	case b >= '0' && b <= '9':
		t.numA = t.numA*10 + int(b-'0')
		return
	case b == ';':
		t.numB = 0
		t.state = vtEscBracketNumSemi
		return
	}

	switch b {
	case 'A':
		t.cursorY -= t.numA * glyphHeight
		if t.cursorY < 0 {
			t.cursorY = 0
		}
	case 'B':
		t.cursorY += t.numA * glyphHeight
	case 'C':
		t.cursorX += t.numA * glyphWidth
	case 'D':
		t.cursorX -= t.numA * glyphWidth
		if t.cursorX < 0 {
			t.cursorX = 0
		}
	case 'H', 'f':
		t.cursorY = t.numA * glyphHeight
		t.cursorX = 0
	case 'K':
		t.clearLineMode(t.numA)
	case 'J':
		t.clearScreenMode(t.numA)
	case 'm', 'g', 'q', 'h', 'l', 'c':
		// no-op / status stub
	}
	t.state = vtNormal
}

func (t *Terminal) writeEscBracketNumSemi(b byte, haveDigit bool) {
	if b >= '0' && b <= '9' {
		if haveDigit {
			t.numB = t.numB*10 + int(b-'0')
		} else {
			t.numB = int(b - '0')
		}
		t.state = vtEscBracketNumSemiNum
		return
	}

	switch b {
	case 'H', 'f':
		t.cursorY = t.numA * glyphHeight
		t.cursorX = t.numB * glyphWidth
	case 'r':
		// scroll region: no-op
	case 'y':
		// loopback test id: no-op, even when numA == 2
	}
	t.state = vtNormal
}

func (t *Terminal) writeEscBracketQuestion(b byte) {
	if b >= '0' && b <= '9' {
		t.numA = int(b - '0')
		t.state = vtEscBracketQuestionNum
		return
	}
	t.state = vtNormal
}

func (t *Terminal) writeEscBracketQuestionNum(b byte) {
	if b >= '0' && b <= '9' {
		t.numA = t.numA*10 + int(b-'0')
		return
	}
	// 'h' and 'l' set/reset DEC private modes 1..9; all are no-ops here.
	t.state = vtNormal
}

func (t *Terminal) writeEscBracketSemi(b byte) {
	if b == 'H' || b == 'f' {
		t.homeCursor()
	}
	t.state = vtNormal
}

func (t *Terminal) clearLineMode(mode int) {
	switch mode {
	case 0:
		t.ClearFromCursorRight()
	case 1:
		t.ClearFromCursorLeft()
	case 2:
		t.ClearLine(t.cursorY)
	}
}

func (t *Terminal) clearScreenMode(mode int) {
	switch mode {
	case 0:
		t.ClearFromCursorDown()
	case 1:
		t.ClearFromCursorUp()
	case 2:
		t.ClearScreen()
	}
}
