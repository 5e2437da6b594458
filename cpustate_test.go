package rv32

import "testing"

func TestCPUStatePrivilegeRoundTrip(t *testing.T) {
	var s CPUState
	for _, p := range []uint32{PrivUser, PrivSuper, PrivMachine} {
		s.SetPrivilege(p)
		if got := s.Privilege(); got != p {
			t.Fatalf("SetPrivilege(%d): Privilege() = %d", p, got)
		}
	}
}

func TestCPUStateWFIFlag(t *testing.T) {
	var s CPUState
	if s.WFI() {
		t.Fatalf("zero-value CPUState should not report WFI")
	}
	s.setWFI(true)
	if !s.WFI() {
		t.Fatalf("setWFI(true) did not stick")
	}
	s.setWFI(false)
	if s.WFI() {
		t.Fatalf("setWFI(false) did not clear")
	}
}

func TestCPUStateReservationFlag(t *testing.T) {
	var s CPUState
	s.setReservation(true)
	if !s.HasReservation() {
		t.Fatalf("setReservation(true) did not stick")
	}
	s.SetPrivilege(PrivMachine)
	if !s.HasReservation() {
		t.Fatalf("SetPrivilege must not disturb the reservation bit")
	}
}

func TestCPUStateCycleCounterSplit(t *testing.T) {
	var s CPUState
	v := uint64(0x1_0000_0001)
	s.setCycle(v)
	if got := s.cycle(); got != v {
		t.Fatalf("cycle() = 0x%x, want 0x%x", got, v)
	}
	if s.CycleL != 1 || s.CycleH != 1 {
		t.Fatalf("unexpected hi/lo split: lo=0x%x hi=0x%x", s.CycleL, s.CycleH)
	}
}

func TestCPUStateSizeIsWordAligned(t *testing.T) {
	if cpuStateSize%4 != 0 {
		t.Fatalf("cpuStateSize = %d, not a multiple of 4", cpuStateSize)
	}
}
