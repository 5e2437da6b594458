//go:build windows

// serial_windows.go - the raw-stdin companion relies on POSIX
// non-blocking fd reads (syscall.SetNonblock); Windows gets a no-op
// stand-in rather than a console-API reimplementation.
package main

type serialCompanion struct{}

func newSerialCompanion(g *game) *serialCompanion { return &serialCompanion{} }

func (s *serialCompanion) Start() {}
func (s *serialCompanion) Stop()  {}
