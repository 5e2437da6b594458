// cpustate.go - RV32IMA architectural state for the rv32boot session core

package rv32

import "unsafe"

// Status codes returned by Machine.Step and the inner interpreter loop.
const (
	StatusNormal      = 0x0000
	StatusWfiIdle     = 0x0001
	StatusBreakpoint  = 0x0003
	StatusRestart     = 0x7777
	StatusPowerOff    = 0x5555
)

// ImageOffset is the guest physical base address at which the kernel image
// is mapped. All guest<->host address translation is a constant subtract
// against this value.
const ImageOffset = 0x80000000

// MMIOBase is the start of the MMIO window: loads and stores at or above
// this address and below ImageOffset are routed to the MMIO bridge.
const MMIOBase = 0x10000000

// extraflags bit layout (CPUState.ExtraFlags).
const (
	flagPrivMask = 0x3 // bits [0:1]: current privilege level
	flagWFI      = 0x4 // bit 2: WFI pending
	flagLoadResv = 0x8 // bit 3: LR.W reservation held
)

// Privilege levels.
const (
	PrivUser    = 0x0
	PrivSuper   = 0x1
	PrivMachine = 0x3
)

// CPUState is the architectural register file, stored verbatim at the tail
// of the guest RAM image so that a snapshot of RAM alone reconstructs the
// whole machine. Field order and sizes matter: this struct's in-memory
// layout IS the wire format seen through Machine.State and by any embedder
// that chooses to persist RAM directly.
type CPUState struct {
	Regs [32]uint32
	PC   uint32

	MStatus uint32
	CycleL  uint32
	CycleH  uint32
	TimerL  uint32
	TimerH  uint32

	TimerMatchL uint32
	TimerMatchH uint32

	MScratch uint32
	MTVec    uint32
	MIE      uint32
	MIP      uint32

	MEPC   uint32
	MTVal  uint32
	MCause uint32

	// MISA is fixed at RV32IMA and never mutated; kept as a field rather
	// than a constant so Machine.State and debug tooling see it uniformly
	// alongside the other CSRs.
	MISA uint32

	// ExtraFlags packs privilege level (bits 0-1), WFI-pending (bit 2) and
	// the single-reservation-set bit used by LR.W/SC.W (bit 3).
	ExtraFlags uint32
}

// cpuStateSize is sizeof(CPUState). Computed via unsafe.Sizeof rather than
// hand-counted so it never drifts from the struct definition above; every
// field is a uint32, so Go lays the struct out with no padding and this
// is exactly a multiple of 4 bytes, keeping RAM offsets word-aligned.
var cpuStateSize = uint32(unsafe.Sizeof(CPUState{}))

// cpuStatePointer reinterprets the tail of a RAM slice as a *CPUState.
// buf must be at least cpuStateSize bytes and 4-byte aligned, which it
// always is: Go's allocator aligns make([]byte, n) sufficiently, and
// Machine.Setup only ever takes this address at offsets that are
// multiples of 4.
func cpuStatePointer(buf []byte) unsafe.Pointer {
	return unsafe.Pointer(&buf[0])
}

// Privilege returns the current privilege level encoded in ExtraFlags.
func (s *CPUState) Privilege() uint32 {
	return s.ExtraFlags & flagPrivMask
}

// SetPrivilege replaces the privilege bits in ExtraFlags, leaving WFI and
// the reservation bit untouched.
func (s *CPUState) SetPrivilege(p uint32) {
	s.ExtraFlags = (s.ExtraFlags &^ flagPrivMask) | (p & flagPrivMask)
}

// WFI reports whether the core is parked in Wait-For-Interrupt.
func (s *CPUState) WFI() bool {
	return s.ExtraFlags&flagWFI != 0
}

func (s *CPUState) setWFI(on bool) {
	if on {
		s.ExtraFlags |= flagWFI
	} else {
		s.ExtraFlags &^= flagWFI
	}
}

// HasReservation reports whether an LR.W reservation is currently held.
func (s *CPUState) HasReservation() bool {
	return s.ExtraFlags&flagLoadResv != 0
}

func (s *CPUState) setReservation(on bool) {
	if on {
		s.ExtraFlags |= flagLoadResv
	} else {
		s.ExtraFlags &^= flagLoadResv
	}
}

// cycle returns the 64-bit cycle counter.
func (s *CPUState) cycle() uint64 {
	return uint64(s.CycleH)<<32 | uint64(s.CycleL)
}

func (s *CPUState) setCycle(v uint64) {
	s.CycleL = uint32(v)
	s.CycleH = uint32(v >> 32)
}

func (s *CPUState) timer() uint64 {
	return uint64(s.TimerH)<<32 | uint64(s.TimerL)
}

func (s *CPUState) setTimer(v uint64) {
	s.TimerL = uint32(v)
	s.TimerH = uint32(v >> 32)
}

func (s *CPUState) timerMatch() uint64 {
	return uint64(s.TimerMatchH)<<32 | uint64(s.TimerMatchL)
}
