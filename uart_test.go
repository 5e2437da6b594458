package rv32

import "testing"

func TestUARTReadRXFIFOOrder(t *testing.T) {
	var u UART
	u.bind([]byte{'a', 'b', 'c'}, 3)
	for _, want := range []byte{'a', 'b', 'c'} {
		got, ok := u.readRX()
		if !ok || got != want {
			t.Fatalf("readRX = (%q, %v), want (%q, true)", got, ok, want)
		}
	}
	if u.hasRX() {
		t.Fatalf("hasRX true after draining the queue")
	}
	if _, ok := u.readRX(); ok {
		t.Fatalf("readRX on empty queue returned ok=true")
	}
}

func TestUARTLineStatusBaseBitsAlwaysSet(t *testing.T) {
	var u UART
	u.bind(nil, 0)
	if v := u.lineStatus(); v&uartLineStatusBase != uartLineStatusBase {
		t.Fatalf("lineStatus = 0x%x, missing base bits 0x%x", v, uartLineStatusBase)
	}
}
