// Command rvboot-monitor is a scriptable debug console for the rv32
// session core: it exposes register, memory, and step primitives as Lua
// globals so a session can be driven or inspected by a short script
// instead of a fixed set of REPL commands.
//
// Narrowed from a multi-CPU command dispatcher (register dump,
// single-step, memory peek as named debugger verbs) down to a handful
// of Lua host functions bound onto one rv32.Machine, since a script can
// express loops and conditionals a fixed command grammar can't.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/tinycore-systems/rv32boot"
)

const monitorRAMSize = 8 * 1024 * 1024

func main() {
	romPath := flag.String("rom", "", "path to the RISC-V kernel image")
	script := flag.String("script", "", "Lua script to run instead of the interactive REPL")
	flag.Parse()

	var rom []byte
	if *romPath != "" {
		var err error
		rom, err = os.ReadFile(*romPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rvboot-monitor: %v\n", err)
			os.Exit(1)
		}
	}

	m := rv32.NewMachine()
	if err := m.Setup(rv32.Config{
		Width: 640, Height: 480,
		RAMSize:    monitorRAMSize,
		ROM:        rom,
		DiscardLog: true,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "rvboot-monitor: setup: %v (continuing)\n", err)
	}
	defer m.Cleanup()

	fb := make([]byte, 640*480*4)
	kb := make([]byte, 256)

	L := lua.NewState()
	defer L.Close()
	registerMonitorAPI(L, m, fb, kb)

	if *script != "" {
		if err := L.DoFile(*script); err != nil {
			fmt.Fprintf(os.Stderr, "rvboot-monitor: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runREPL(L)
}

// registerMonitorAPI binds step/regs/setreg/mem/pc/status as Lua globals
// closing over one Machine, fb and kb buffer.
func registerMonitorAPI(L *lua.LState, m *rv32.Machine, fb, kb []byte) {
	kbLen := 0

	L.SetGlobal("step", L.NewFunction(func(L *lua.LState) int {
		n := 1
		if L.GetTop() >= 1 {
			n = L.CheckInt(1)
		}
		var status int
		for i := 0; i < n; i++ {
			status, kbLen = m.Step(fb, 640, 480, kb, kbLen)
		}
		L.Push(lua.LNumber(status))
		return 1
	}))

	L.SetGlobal("regs", L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		s := m.State()
		for i, v := range s.Regs {
			t.RawSetInt(i, lua.LNumber(v))
		}
		L.Push(t)
		return 1
	}))

	L.SetGlobal("setreg", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		v := L.CheckInt(2)
		if n > 0 && n < 32 {
			m.State().Regs[n] = uint32(v)
		}
		return 0
	}))

	L.SetGlobal("pc", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.State().PC))
		return 1
	}))

	L.SetGlobal("mem", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckInt(1))
		n := L.CheckInt(2)
		off := addr - rv32.ImageOffset
		t := L.NewTable()
		for i := 0; i < n; i++ {
			idx := off + uint32(i)
			if idx >= uint32(len(m.RAM)) {
				break
			}
			t.RawSetInt(i+1, lua.LNumber(m.RAM[idx]))
		}
		L.Push(t)
		return 1
	}))

	L.SetGlobal("status", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(fmt.Sprintf("pc=0x%08x priv=%d wfi=%v", m.State().PC, m.State().Privilege(), m.State().WFI())))
		return 1
	}))
}

func runREPL(L *lua.LState) {
	fmt.Println("rvboot-monitor: type Lua, Ctrl-D to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := L.DoString(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
