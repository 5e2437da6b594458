package rv32

import "testing"

func TestUARTEchoRoundTrip(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.term.bindFramebuffer(make([]byte, 64*64*4), 64, 64)
	m.controlStore(uartDataAddr, 'X')
	// The byte should have gone to the terminal parser; cursor must have
	// advanced one cell since 'X' is printable.
	if m.term.cursorX == 0 {
		t.Fatalf("UART TX byte did not reach the terminal")
	}
}

func TestUARTLineStatusReflectsRX(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.uart.bind([]byte{'a'}, 1)
	if v := m.controlLoad(uartStatusAddr); v&1 == 0 {
		t.Fatalf("line status = 0x%x, want RX-ready bit set", v)
	}
	m.uart.bind(nil, 0)
	if v := m.controlLoad(uartStatusAddr); v&1 != 0 {
		t.Fatalf("line status = 0x%x, want RX-ready bit clear", v)
	}
}

func TestUARTDataLoadDrainsKeyboardQueue(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.uart.bind([]byte{'h', 'i'}, 2)
	got := m.controlLoad(uartDataAddr)
	if got != 'h' {
		t.Fatalf("first RX byte = %q, want 'h'", rune(got))
	}
	if m.uart.kbLen != 1 {
		t.Fatalf("kbLen after one read = %d, want 1", m.uart.kbLen)
	}
	got = m.controlLoad(uartDataAddr)
	if got != 'i' {
		t.Fatalf("second RX byte = %q, want 'i'", rune(got))
	}
}

func TestDebugCSRReadKeySentinel(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.uart.bind(nil, 0)
	if v := m.otherCSRRead(csrDebugReadKey); v != -1 {
		t.Fatalf("read key with empty queue = %d, want -1", v)
	}
	m.uart.bind([]byte{'z'}, 1)
	if v := m.otherCSRRead(csrDebugReadKey); v != 'z' {
		t.Fatalf("read key = %d, want 'z'", v)
	}
}

func TestDebugCSRPrintString(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.term.bindFramebuffer(make([]byte, 64*64*4), 64, 64)
	msg := []byte("hi\x00")
	copy(m.RAM[0:len(msg)], msg)
	m.otherCSRWrite(csrDebugPrintString, ImageOffset)
	if m.term.cursorX != 2*glyphWidth {
		t.Fatalf("cursor after printing %q = %d, want %d", "hi", m.term.cursorX, 2*glyphWidth)
	}
}

func TestSysconPowerOff(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.controlStore(sysconAddr, sysconPowerOff)
	if m.pendingStatus != StatusPowerOff {
		t.Fatalf("pendingStatus = %d, want StatusPowerOff", m.pendingStatus)
	}
}

func TestSysconRestart(t *testing.T) {
	m := newBareMachine(t, 64*1024)
	defer m.Cleanup()
	m.controlStore(sysconAddr, sysconRestart)
	if m.pendingStatus != StatusRestart {
		t.Fatalf("pendingStatus = %d, want StatusRestart", m.pendingStatus)
	}
}
