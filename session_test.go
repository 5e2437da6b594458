package rv32

import "testing"

func testFontAtlas(t *testing.T) *FontAtlas {
	t.Helper()
	const cols, rows = 16, 16
	w, h := cols*glyphWidth, rows*glyphHeight
	pixels := make([]byte, w*h)
	f, err := NewFontAtlas(pixels, w, h)
	if err != nil {
		t.Fatalf("NewFontAtlas: %v", err)
	}
	return f
}

func testROM() []byte {
	// A handful of NOP-shaped words (ADDI x0, x0, 0) is enough to let the
	// interpreter fetch real instructions without doing anything guest
	// side that would matter to these tests.
	rom := make([]byte, 64)
	for i := 0; i+4 <= len(rom); i += 4 {
		rom[i+0] = 0x13
		rom[i+1] = 0x00
		rom[i+2] = 0x00
		rom[i+3] = 0x00
	}
	return rom
}

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine()
	err := m.Setup(Config{
		Width: 64, Height: 64,
		RAMSize:    64 * 1024,
		ROM:        testROM(),
		Font:       testFontAtlas(t),
		DiscardLog: true,
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	return m
}

func TestSetupPlacesRegistersPerBootConvention(t *testing.T) {
	m := newTestMachine(t)
	defer m.Cleanup()

	s := m.State()
	if s.PC != ImageOffset {
		t.Fatalf("PC = 0x%x, want 0x%x", s.PC, ImageOffset)
	}
	if s.Regs[10] != 0 {
		t.Fatalf("a0 (hartid) = %d, want 0", s.Regs[10])
	}
	if want := m.DTBOffset() + ImageOffset; s.Regs[11] != want {
		t.Fatalf("a1 (dtb ptr) = 0x%x, want 0x%x", s.Regs[11], want)
	}
	if s.Privilege() != PrivMachine {
		t.Fatalf("initial privilege = %d, want machine mode", s.Privilege())
	}
	if s.MISA != misaRV32IMA {
		t.Fatalf("MISA = 0x%x, want 0x%x", s.MISA, misaRV32IMA)
	}
}

func TestSetupTolerateMissingROM(t *testing.T) {
	m := NewMachine()
	defer m.Cleanup()
	err := m.Setup(Config{
		Width: 64, Height: 64,
		Font:       testFontAtlas(t),
		DiscardLog: true,
	})
	if err == nil {
		t.Fatalf("expected a *SetupError for the missing ROM")
	}
	if m.RAM == nil {
		t.Fatalf("Setup must still assemble RAM when the ROM is missing")
	}
}

func TestSetupTolerateOversizedROM(t *testing.T) {
	m := NewMachine()
	defer m.Cleanup()
	err := m.Setup(Config{
		Width: 64, Height: 64,
		RAMSize:    1024,
		ROM:        make([]byte, 4096),
		Font:       testFontAtlas(t),
		DiscardLog: true,
	})
	if err == nil {
		t.Fatalf("expected a *SetupError for the oversized ROM")
	}
}

func TestSetupPatchesDTBSentinel(t *testing.T) {
	m := newTestMachine(t)
	defer m.Cleanup()

	off := m.DTBOffset()
	got := uint32(m.RAM[off+dtbSentinelOffset]) |
		uint32(m.RAM[off+dtbSentinelOffset+1])<<8 |
		uint32(m.RAM[off+dtbSentinelOffset+2])<<16 |
		uint32(m.RAM[off+dtbSentinelOffset+3])<<24
	// patchDTBRAMSize writes big-endian, so reinterpreting little-endian
	// here should NOT match the raw dtbOff value directly; instead verify
	// the byte-swapped reading matches.
	beVal := got>>24 | (got>>8)&0xFF00 | (got<<8)&0xFF0000 | got<<24
	if beVal != off {
		t.Fatalf("sentinel patch = 0x%x, want dtb offset 0x%x", beVal, off)
	}
}

func TestStepAdvancesPCPastNOPStream(t *testing.T) {
	m := newTestMachine(t)
	defer m.Cleanup()
	fb := make([]byte, 64*64*4)
	kb := make([]byte, 16)
	m.Step(fb, 64, 64, kb, 0)
	if m.State().PC == ImageOffset {
		t.Fatalf("PC did not advance after stepping a NOP stream")
	}
}

func TestStepReturnsKeyboardLengthInRange(t *testing.T) {
	m := newTestMachine(t)
	defer m.Cleanup()
	fb := make([]byte, 64*64*4)
	kb := []byte{'a', 'b', 'c'}
	_, newLen := m.Step(fb, 64, 64, kb, len(kb))
	if newLen < 0 || newLen > len(kb) {
		t.Fatalf("newLen = %d out of range", newLen)
	}
}

func TestCleanupReleasesRAM(t *testing.T) {
	m := newTestMachine(t)
	if err := m.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if m.RAM != nil {
		t.Fatalf("Cleanup did not release RAM")
	}
}
