//go:build !windows

// serial.go - optional raw-stdin companion input, feeding host keystrokes
// into the same keyboard queue the Ebiten window's key handler fills.
//
// Raw mode via golang.org/x/term, a background goroutine polling a
// non-blocking fd, CR->LF and DEL->BS translation, and a Stop() that
// restores the terminal. Narrowed to just the stdin-reading half, since
// output here goes to the Ebiten window rather than back through stdout.
package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// serialCompanion reads raw stdin in the background and appends bytes to
// a game's keyboard queue, for headless/ssh-style operation alongside the
// Ebiten window.
type serialCompanion struct {
	g *game

	fd           int
	oldTermState *term.State
	nonblockSet  bool

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

func newSerialCompanion(g *game) *serialCompanion {
	return &serialCompanion{
		g:      g,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (s *serialCompanion) Start() {
	s.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(s.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: serial: raw mode: %v\n", err)
		close(s.done)
		return
	}
	s.oldTermState = oldState

	if err := syscall.SetNonblock(s.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "rvboot: serial: nonblocking stdin: %v\n", err)
		_ = term.Restore(s.fd, s.oldTermState)
		s.oldTermState = nil
		close(s.done)
		return
	}
	s.nonblockSet = true

	go func() {
		defer close(s.done)
		buf := make([]byte, 1)
		for {
			select {
			case <-s.stopCh:
				return
			default:
			}

			n, err := syscall.Read(s.fd, buf)
			if n > 0 {
				b := buf[0]
				if b == '\r' {
					b = '\n'
				}
				if b == 0x7F {
					b = 0x08
				}
				s.g.enqueue(b)
			}
			switch {
			case err == syscall.EAGAIN || err == syscall.EWOULDBLOCK:
				time.Sleep(5 * time.Millisecond)
			case err != nil:
				return
			case n == 0:
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()
}

func (s *serialCompanion) Stop() {
	s.stopped.Do(func() {
		close(s.stopCh)
	})
	<-s.done
	if s.nonblockSet {
		_ = syscall.SetNonblock(s.fd, false)
		s.nonblockSet = false
	}
	if s.oldTermState != nil {
		_ = term.Restore(s.fd, s.oldTermState)
		s.oldTermState = nil
	}
}
