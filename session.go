// session.go - setup/step/cleanup entry points: the only surface an
// embedder talks to.
//
// Mutable global state in the C ancestor (core, ram_image, cursor,
// parser state, log handle — see original_source/src/c/libkarv.c)
// becomes fields of Machine here; the CPU's MMIO/CSR upcalls close over
// *Machine rather than reaching through package-level globals.
package rv32

import (
	"fmt"

	"github.com/tinycore-systems/rv32boot/rvlog"
)

// DefaultRAMSize is the guest physical RAM size used when Config.RAMSize
// is left at zero, matching libkarv.c's ram_amt default of 64 MiB.
const DefaultRAMSize = 64 * 1024 * 1024

// instructionBudgetPerStep and innerStepBudget together reproduce
// libkarv.c's step() loop: 65536*5 guest instructions total, executed in
// inner calls of at most 1024 instructions so the MMIO/timer/interrupt
// state is re-evaluated at a fine enough granularity.
const (
	instructionBudgetPerStep = 65536 * 5
	innerStepBudget          = 1024
)

// Config describes everything Setup needs to assemble a session's initial
// state. It replaces the C ancestor's package-level globals
// (width/height/font/ram_image/...) with explicit constructor input.
type Config struct {
	Width, Height int // framebuffer dimensions in pixels

	RAMSize uint32 // guest physical RAM size; DefaultRAMSize if zero

	ROM []byte // kernel image, loaded at guest physical address ImageOffset
	DTB []byte // device tree blob; defaultDTB is used if nil/empty

	Font       *FontAtlas
	CmdLine    string // optional kernel command line, truncated to 54 bytes
	LogPath    string // rvlog.txt path; "rvlog.txt" if empty
	DiscardLog bool   // route diagnostics to io.Discard instead of a file (tests)
}

// Machine is a single emulator session: RAM, CPU state, the MMIO/UART
// bridge, the VT terminal, and the diagnostic log. It is not safe for
// concurrent Step calls.
type Machine struct {
	RAM []byte

	state   *CPUState
	dtbOff  uint32
	cpuOff  uint32
	ramSize uint32

	uart UART
	term *Terminal
	log  *rvlog.Logger

	kb    []byte
	kbLen int32

	firstStep bool
	stepCount int

	// pendingStatus is set by controlStore when the guest writes the
	// syscon restart/power-off word, and consumed by runCPU at the end
	// of the instruction that triggered it.
	pendingStatus int
}

// NewMachine allocates an uninitialised session. Call Setup before Step.
func NewMachine() *Machine {
	return &Machine{firstStep: true}
}

// Setup assembles RAM, places the DTB and CPU state, patches the DTB RAM
// size sentinel, and initialises boot registers. Problems with individual
// inputs (missing font, missing/oversized ROM) are recorded as
// *SetupError and returned, but Setup still proceeds with whatever could
// be loaded.
func (m *Machine) Setup(cfg Config) error {
	var errs setupErrors

	ramSize := cfg.RAMSize
	if ramSize == 0 {
		ramSize = DefaultRAMSize
	}
	if ramSize < cpuStateSize*4 {
		ramSize = cpuStateSize * 4
	}
	ramSize &^= 3 // keep the CPUState offset word-aligned
	m.ramSize = ramSize
	m.RAM = make([]byte, ramSize)

	if len(cfg.ROM) > len(m.RAM) {
		errs.add(StageROM, fmt.Errorf("rom is %d bytes, larger than %d bytes of RAM", len(cfg.ROM), len(m.RAM)))
	} else {
		copy(m.RAM, cfg.ROM)
	}
	if len(cfg.ROM) == 0 {
		errs.add(StageROM, fmt.Errorf("no rom supplied"))
	}

	dtb := cfg.DTB
	if len(dtb) == 0 {
		dtb = append([]byte(nil), defaultDTB...)
	}

	m.cpuOff = ramSize - cpuStateSize
	if uint32(len(dtb)) > m.cpuOff {
		errs.add(StageDTB, fmt.Errorf("dtb is %d bytes, does not fit before the CPU state at offset 0x%x", len(dtb), m.cpuOff))
		dtb = dtb[:m.cpuOff]
	}
	m.dtbOff = m.cpuOff - uint32(len(dtb))
	copy(m.RAM[m.dtbOff:m.cpuOff], dtb)

	if cfg.CmdLine != "" {
		writeCmdline(m.RAM[m.dtbOff:m.cpuOff], cfg.CmdLine)
	}
	patchDTBRAMSize(m.RAM[m.dtbOff:m.cpuOff], m.dtbOff)

	m.state = (*CPUState)(cpuStatePointer(m.RAM[m.cpuOff:]))
	*m.state = CPUState{}
	m.state.PC = ImageOffset
	m.state.Regs[10] = 0
	m.state.Regs[11] = m.dtbOff + ImageOffset
	m.state.SetPrivilege(PrivMachine)
	m.state.MISA = misaRV32IMA

	if cfg.Font == nil {
		errs.add(StageFont, fmt.Errorf("no font atlas supplied"))
	}
	m.term = NewTerminal(cfg.Font)

	if cfg.DiscardLog {
		m.log = rvlog.NewDiscard()
	} else {
		path := cfg.LogPath
		if path == "" {
			path = "rvlog.txt"
		}
		l, err := rvlog.Open(path)
		if err != nil {
			return err
		}
		m.log = l
	}
	for _, e := range errs {
		m.log.Printf("%v\n", e)
	}

	var checksum byte
	for _, b := range m.RAM {
		checksum += b
	}
	m.log.Printf("Checksum: 0x%x\n", checksum)
	m.log.Printf("Finished setup\n")

	m.firstStep = true
	return errs.join()
}

// Step advances the guest by the fixed per-step instruction budget,
// servicing MMIO as it goes, renders the blinking cursor, and returns the
// status code together with the keyboard queue's new length after RX
// draining. fb and kb are borrowed for the duration of this call only.
func (m *Machine) Step(fb []byte, width, height int, kb []byte, kbLen int) (status int, newKBLen int) {
	m.term.bindFramebuffer(fb, width, height)
	m.uart.bind(kb, kbLen)

	if m.firstStep {
		m.term.ClearScreen()
		m.firstStep = false
	}

	status = StatusNormal
	ran := 0
	for ran < instructionBudgetPerStep {
		budget := innerStepBudget
		if instructionBudgetPerStep-ran < budget {
			budget = instructionBudgetPerStep - ran
		}
		var n int
		status, n = m.runCPU(budget)
		ran += n
		if status != StatusNormal && status != StatusWfiIdle {
			break
		}
	}

	m.stepCount++
	m.term.drawCursor(m.stepCount)

	newKBLen = m.uart.kbLen
	m.term.fb = nil
	m.uart.bind(nil, 0)
	return status, newKBLen
}

// Cleanup releases the session's resources.
func (m *Machine) Cleanup() error {
	m.RAM = nil
	m.term = nil
	if m.log != nil {
		return m.log.Close()
	}
	return nil
}

// State exposes the architectural register file for debug tooling
// (cmd/rvboot-monitor). The returned pointer aliases RAM; embedders must
// not retain it across a Cleanup call.
func (m *Machine) State() *CPUState { return m.state }

// RAMSize reports the configured guest physical RAM size.
func (m *Machine) RAMSize() uint32 { return m.ramSize }

// DTBOffset reports the byte offset of the device tree blob within RAM.
func (m *Machine) DTBOffset() uint32 { return m.dtbOff }

// CPUStateOffset reports the byte offset of the CPUState within RAM.
func (m *Machine) CPUStateOffset() uint32 { return m.cpuOff }
